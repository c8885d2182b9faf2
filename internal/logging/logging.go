package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var logfile *os.File
var verbose bool

func Init() {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	p := filepath.Join(dir, "framepak", "logs")
	_ = os.MkdirAll(p, 0o755)
	f, err := os.OpenFile(filepath.Join(p, "framepak.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	logfile = f
	log.SetOutput(f)
}

func Close() {
	if logfile != nil {
		_ = logfile.Close()
	}
}

func color(code, s string) string { return "\x1b[" + code + "m" + s + "\x1b[0m" }

func Info(msg string) {
	fmt.Println(msg)
	log.Println(msg)
}

func Success(msg string) {
	fmt.Println(color("32", msg))
	log.Println(msg)
}

func Warn(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, color("33", msg))
	log.Println("[WARN] " + msg)
}

func Error(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, color("31", msg))
	log.Println(msg)
}

func Gray(msg string) {
	fmt.Println(color("90", msg))
	log.Println(msg)
}

// SetVerbose toggles verbose output to stdout.
func SetVerbose(v bool) { verbose = v }

// Verbose reports whether Debug output is enabled.
func Verbose() bool { return verbose }

// Debug prints only when verbose mode is enabled.
func Debug(msg string) {
	if !verbose {
		return
	}
	fmt.Println(color("90", msg))
	log.Println("[DEBUG] " + msg)
}
