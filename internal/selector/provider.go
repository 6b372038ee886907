package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	// ErrNoFiles is returned when there is nothing to choose from
	ErrNoFiles = errors.New("no audio files found")
	// ErrNoInput is returned when input ends before a choice is made
	ErrNoInput = errors.New("input closed before a choice was made")
)

// FileProvider supplies the file to process and the translation choice
type FileProvider interface {
	SelectFile() (string, error)
	ConfirmTranslation() (bool, error)
}

// Static answers from fixed values, e.g. command-line flags
type Static struct {
	Path      string
	Translate bool
}

func (s Static) SelectFile() (string, error) {
	if s.Path == "" {
		return "", ErrNoFiles
	}
	return s.Path, nil
}

func (s Static) ConfirmTranslation() (bool, error) {
	return s.Translate, nil
}

// Console prompts on a terminal with a numbered menu; 0 asks for a custom path
type Console struct {
	in         *bufio.Reader
	out        io.Writer
	candidates func() ([]string, error)
	// Kind names the files in prompts, e.g. "audio" or "OGG"
	Kind   string
	Target string
}

// NewConsole creates a console provider. candidates lists the menu entries.
func NewConsole(in io.Reader, out io.Writer, candidates func() ([]string, error)) *Console {
	return &Console{
		in:         bufio.NewReader(in),
		out:        out,
		candidates: candidates,
		Kind:       "audio",
		Target:     "English",
	}
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SelectFile shows the menu and loops until a valid choice is entered
func (c *Console) SelectFile() (string, error) {
	files, err := c.candidates()
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		fmt.Fprintf(c.out, "No %s files found.\n", c.Kind)
		return "", ErrNoFiles
	}

	fmt.Fprintf(c.out, "\nAvailable %s files:\n", c.Kind)
	for i, f := range files {
		fmt.Fprintf(c.out, "%d. %s%s\n", i+1, f, sizeSuffix(f))
	}

	for {
		line, err := c.prompt("\nSelect a file number (or 0 to enter custom path): ")
		if err != nil {
			return "", err
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a valid number.")
			continue
		}

		if choice == 0 {
			return c.prompt(fmt.Sprintf("Enter the path to your %s file: ", c.Kind))
		}

		if choice >= 1 && choice <= len(files) {
			return files[choice-1], nil
		}

		fmt.Fprintln(c.out, "Invalid selection. Please try again.")
	}
}

// ConfirmTranslation asks a yes/no question until it gets an answer
func (c *Console) ConfirmTranslation() (bool, error) {
	for {
		line, err := c.prompt(fmt.Sprintf("Translate the transcript to %s? (y/n): ", c.Target))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes", "д", "да":
			return true, nil
		case "n", "no", "н", "нет":
			return false, nil
		}

		fmt.Fprintln(c.out, "Please answer y or n.")
	}
}

func (c *Console) prompt(text string) (string, error) {
	fmt.Fprint(c.out, text)

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func sizeSuffix(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
}
