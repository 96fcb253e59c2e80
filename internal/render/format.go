package render

import (
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Percent formats a 0..1 fraction as a percentage with two decimals.
func Percent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
}

// OptPercent is Percent for optional values; nil renders as "-".
func OptPercent(f *float64) string {
	if f == nil {
		return "-"
	}
	return Percent(*f)
}

func Float(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func Count(n uint64) string {
	return humanize.Comma(int64(n))
}

func Int(n int) string {
	return strconv.Itoa(n)
}

// Signed prefixes non-negative values with "+".
func Signed(f float64, prec int) string {
	s := Float(f, prec)
	if f >= 0 {
		return "+" + s
	}
	return s
}

// Multiplier formats a damage multiplier as "2x", "0.5x" or "0x".
func Multiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "x"
}

// DetectOptions styles output only when w is a terminal and NO_COLOR is unset.
func DetectOptions(w io.Writer) Options {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return Options{}
	}
	opts := Options{Color: os.Getenv("NO_COLOR") == ""}
	if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
		opts.Width = width
	}
	return opts
}
