package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner; magenta when color is enabled.
func PrintBanner(color bool) {
	if color {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` __  __           _     __  __           _
|  \/  | ___  ___| |__ |  \/  | __ _ ___| |_ ___ _ __
| |\/| |/ _ \/ __| '_ \| |\/| |/ _`+"`"+` / __| __/ _ \ '__|
| |  | | (_) \__ \ | | | |  | | (_| \__ \ ||  __/ |
|_|  |_|\___/|___/_| |_|_|  |_|\__,_|___/\__\___|_|
`)
	if color {
		fmt.Fprintln(os.Stdout, "\033[0m")
	}
}
