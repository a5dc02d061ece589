package main

import "fmt"

// formatDOSDateTime renders a directory entry's packed FAT date/time
// fields (spec §6: "standard FAT encoding") as a human-readable
// timestamp. This lives entirely in the CLI: the core deliberately
// never interprets these fields beyond passing them through (spec §1
// lists DOS date/time formatting among the external collaborators
// out of scope for the decoder itself).
func formatDOSDateTime(date, time uint16) string {
	day := date & 0x1f
	month := (date >> 5) & 0xf
	year := 1980 + (date >> 9)

	seconds := (time & 0x1f) * 2
	minutes := (time >> 5) & 0x3f
	hours := (time >> 11) & 0x1f

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hours, minutes, seconds)
}
