package testing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/drift-tui/pkg/core"
)

// TestingT is the subset of testing.T used by snapshot assertions.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the mounted tree and the screen for golden comparison.
type Snapshot struct {
	Tree   *Node    `yaml:"tree,omitempty"`
	Screen []string `yaml:"screen"`
}

// Node is one mounted instance in a snapshot.
type Node struct {
	// ID is the type name and its occurrence index, e.g. "Text#1".
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
	Key  string `yaml:"key,omitempty"`
	// Frame is the parent-relative rectangle as [x, y, width, height].
	Frame    [4]int  `yaml:"frame,flow"`
	Text     string  `yaml:"text,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// CaptureSnapshot records the element under test and the current screen.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Screen: t.buffer.Lines()}
	if root, ok := t.Root(); ok {
		counter := &typeCounter{}
		snap.Tree = captureNode(root, counter)
	}
	return snap
}

func captureNode(m core.Mounted, counter *typeCounter) *Node {
	frame := m.Frame()
	node := &Node{
		ID:    counter.next(m.Type()),
		Type:  m.Type(),
		Frame: [4]int{frame.X, frame.Y, frame.Width, frame.Height},
	}
	if key, ok := m.Key(); ok {
		node.Key = fmt.Sprint(key)
	}
	if text, ok := textOf(m); ok {
		node.Text = text
	}
	for _, child := range m.Children() {
		node.Children = append(node.Children, captureNode(child, counter))
	}
	return node
}

// MatchesFile compares the snapshot against a golden file. When
// DRIFT_UPDATE_SNAPSHOTS=1 is set, the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("DRIFT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot %s: %v", path, err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file %s does not exist; run with DRIFT_UPDATE_SNAPSHOTS=1 to create it", path)
			return
		}
		t.Fatalf("failed to load snapshot %s: %v", path, err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch for %s:\n%s", path, diff)
	}
}

// UpdateFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff from other (expected) to s (actual), or "" if
// they serialize identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// String returns the YAML form of the snapshot.
func (s *Snapshot) String() string {
	data, err := marshalSnapshot(s)
	if err != nil {
		return fmt.Sprintf("<snapshot: %v>", err)
	}
	return string(data)
}

type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}
	return buf.String()
}
