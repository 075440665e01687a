package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around terminal settings termbox cannot handle.
// The returned function puts the environment back.
func normalizeTerminal() (func(), error) {
	prevTERMINFO, hadTERMINFO := os.LookupEnv("TERMINFO")

	// termbox fails on some TERMINFO values when running inside tmux.
	if hadTERMINFO && strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if !hadTERMINFO {
			return
		}

		if err := os.Setenv("TERMINFO", prevTERMINFO); err != nil {
			panic(err)
		}
	}

	return restore, nil
}
