package loggers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

var levelAttributes = map[string][]color.Attribute{
	"debug": {color.FgHiBlack},
	"http":  {color.FgMagenta},
	"info":  {color.FgGreen},
	"warn":  {color.FgYellow},
	"error": {color.FgRed, color.Bold},
}

func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:         out,
		NoColor:     noColor,
		TimeFormat:  "15:04:05.000",
		FormatLevel: formatLevel(noColor),
	}
}

func formatLevel(noColor bool) zerolog.Formatter {
	colors := make(map[string]*color.Color, len(levelAttributes))
	for name, attrs := range levelAttributes {
		c := color.New(attrs...)
		// color disables itself when stdout is not a terminal; Out decides here.
		c.EnableColor()
		colors[name] = c
	}

	return func(i interface{}) string {
		name, _ := i.(string)
		label := fmt.Sprintf("%-5s", strings.ToUpper(name))
		if noColor {
			return label
		}
		c, ok := colors[name]
		if !ok {
			return label
		}
		return c.Sprint(label)
	}
}
