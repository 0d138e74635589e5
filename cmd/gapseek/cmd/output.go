package cmd

// ANSI color codes for command output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

// paint wraps s in code when color is on.
func paint(on bool, code, s string) string {
	if !on {
		return s
	}
	return code + s + colorReset
}
