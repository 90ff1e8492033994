package e2e_test

import (
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary builds the renkon demo-driver binary once for all testscript
// tests in this package.
func buildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		binaryPath = filepath.Join(os.TempDir(), "renkon_testscript_bin")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/renkon")
		if out, err := buildCmd.CombinedOutput(); err != nil {
			buildErr = err
			t.Logf("failed to build CLI: %v\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return binaryPath
}

func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to get port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become ready in time", url)
}

// TestCLIIntegration starts the renkon demo driver as a subprocess and
// drives it through testscript scripts in testdata/: each script hits the
// literal /accounts scenarios over HTTP via curl-equivalent requests.
func TestCLIIntegration(t *testing.T) {
	bin := buildBinary(t)
	port := getFreePort(t)
	engineURL := "http://127.0.0.1:" + strconv.Itoa(port)

	cmd := exec.Command(bin, "--hostname", "127.0.0.1", "--port", strconv.Itoa(port))
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start renkon: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	waitForServer(t, engineURL+"/accounts")

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("ENGINE_URL", engineURL)
			return nil
		},
	})
}
