// Package hexconsole is a raw-terminal REPL for issuing cartridge bus
// commands by hand and inspecting their results, grounded on the
// teacher's own easyterm wrapper around pkg/term/termios: the same
// cbreak-mode/line-read pattern the teacher's debugger terminal uses,
// repurposed here for a single-purpose command port inspector instead
// of a full command-line debugger.
package hexconsole

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/kaedeo/dscore/hardware/cartridge"
	"github.com/pkg/term/termios"
)

// Run puts stdin into cbreak mode and accepts hex-encoded 8-byte
// cartridge commands, one per line, issuing each with a declared length
// of one word and printing the resulting word until the user types "quit" or sends
// EOF. The terminal is always restored to its original attributes
// before returning, even on error.
func Run(e *cartridge.Engine) error {
	var orig, cbreak syscall.Termios
	fd := os.Stdin.Fd()

	if err := termios.Tcgetattr(fd, &orig); err != nil {
		return fmt.Errorf("hexconsole: reading terminal attributes: %w", err)
	}
	cbreak = orig
	termios.Cfmakecbreak(&cbreak)
	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &cbreak); err != nil {
		return fmt.Errorf("hexconsole: entering cbreak mode: %w", err)
	}
	defer termios.Tcsetattr(fd, termios.TCIFLUSH, &orig)

	fmt.Println("cartridge command console -- chip id:", fmt.Sprintf("%08X", e.ChipID()))
	fmt.Println("enter an 8-byte hex command (e.g. 9f00000000000000), or 'quit'")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}

		raw, err := hex.DecodeString(line)
		if err != nil || len(raw) != 8 {
			fmt.Println("expected exactly 8 bytes of hex")
			continue
		}
		var cmd [8]byte
		copy(cmd[:], raw)

		words, err := e.Execute(cmd, 1)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		for _, w := range words {
			fmt.Printf("%08X\n", w)
		}
	}
	return scanner.Err()
}
