// Package terminal is the tcell frontend: a level menu and a board view
// that turn key presses into GameService calls.
package terminal
