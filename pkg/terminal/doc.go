// Package terminal connects the runtime to a real terminal through tcell.
//
// Screen implements rendering.Backend: Draw rasterizes a display list into
// cells and pushes them to the tcell screen. Input arrives as Events on
// Screen.Events, and components receive them through an EventBus found in
// context with UseEvents.
package terminal
