// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
}

const mod = "agpsplice/"

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Skipf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	cliLayer := []string{"agpsplice/internal/app", "agpsplice/internal/cli", "agpsplice/cmd/"}
	bans := map[string][]string{
		"agpsplice/internal/pipeline": cliLayer,
		"agpsplice/internal/lookup":   append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/publish"}, cliLayer...),
		"agpsplice/internal/publish":  append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/lookup"}, cliLayer...),
		"agpsplice/internal/metrics":  append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/config"}, cliLayer...),
		"agpsplice/internal/output":   append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/config"}, cliLayer...),
		"agpsplice/internal/config":   append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/lookup"}, cliLayer...),
		"agpsplice/internal/cmdutil":  append([]string{"agpsplice/internal/pipeline", "agpsplice/internal/config"}, cliLayer...),
		"agpsplice/pkg/api":           {"agpsplice/internal/"},
	}
	// only these may touch the command-line libraries
	thirdParty := map[string][]string{
		"github.com/spf13/cobra": {"agpsplice/internal/app"},
		"github.com/spf13/pflag": {"agpsplice/internal/cli"},
		"github.com/spf13/viper": {"agpsplice/internal/app", "agpsplice/internal/cli", "agpsplice/internal/config"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for _, dep := range p.Imports {
			for lib, allowed := range thirdParty {
				if dep == lib && !hasPrefixAny(imp, allowed) {
					violations = append(violations, imp+" → "+dep)
				}
			}
			if !strings.HasPrefix(dep, mod) {
				continue
			}
			for prefix, forbidden := range bans {
				if strings.HasPrefix(imp, prefix) && hasPrefixAny(dep, forbidden) {
					violations = append(violations, imp+" → "+dep)
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
