// Package envvars publishes the simulator's connection endpoint to client
// tooling. Two differently-named legacy client conventions read it: tappd
// clients and dstack clients, whose socket basenames differ while pointing
// at the same directory.
package envvars

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

const (
	// EndpointVar carries the canonical transport address.
	EndpointVar = "TAPPD_SIMULATOR_ENDPOINT"
	// AliasVar carries the dstack-named alias of the same address.
	AliasVar = "DSTACK_SIMULATOR_ENDPOINT"
)

// Alias returns the compatibility endpoint: same directory, dstack socket
// basename. TCP endpoints have no filename to swap and alias to themselves.
func Alias(endpoint string) string {
	if !strings.HasSuffix(endpoint, platform.SocketName) {
		return endpoint
	}
	return filepath.Join(filepath.Dir(endpoint), platform.AliasSocketName)
}

// Publish sets both endpoint variables in the current process and writes
// shell-export instructions to w. Setenv cannot reach the parent shell, so
// the printed instructions are the mechanism that actually works for
// interactive use; both are performed deliberately.
func Publish(w io.Writer, endpoint string) error {
	alias := Alias(endpoint)
	if err := os.Setenv(EndpointVar, endpoint); err != nil {
		return err
	}
	if err := os.Setenv(AliasVar, alias); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "export %s=%s\n", EndpointVar, endpoint)
	_, _ = fmt.Fprintf(w, "export %s=%s\n", AliasVar, alias)
	return nil
}

// Unpublish removes both variables from the current process environment.
func Unpublish() {
	_ = os.Unsetenv(EndpointVar)
	_ = os.Unsetenv(AliasVar)
}
