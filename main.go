package main

import (
	"github.com/alecthomas/kong"

	"tonelero/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("tonelero"), kong.Description("Tonelero manages brewery kegs, dispensers and their maintenance."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
