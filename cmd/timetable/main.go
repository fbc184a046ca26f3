package main

import (
	"timetable-backend/cmd/timetable/commands"
	"timetable-backend/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
