// Command toolboot bootstraps the Lua build toolchain: pipx and hererocks
// on the host, then Lua 5.1 and LuaJIT 2.1 under build/ with their build
// dependencies.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/2ndBillingCycle/toolboot"
	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(toolboot.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitCode(err))
	}
}
