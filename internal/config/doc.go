// Package config loads the surface configuration.
//
// Configuration comes from three places, later ones overriding earlier:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. SURFACE_* environment variables
//
// A file that is being watched is reloaded when it changes; the frame loop
// picks up the new Config at the start of the next frame.
//
// # Example
//
//	[frame]
//	fps = 60
//	margin_ms = 3
//
//	[input]
//	hold_frames = 5
//
//	[log]
//	level = "debug"
//	file = "/tmp/surface.log"
//
//	[[elements]]
//	x = 0
//	y = 0
//	width = 30
//	height = 10
//	color = "#0000FF"
//	highlight = "#FFC800"
package config
