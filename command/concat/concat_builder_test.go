package concat

import (
	"os"
	"strings"
	"testing"
)

func TestBuilder_BuildArgs_Copy(t *testing.T) {
	builder := NewBuilder([]string{"a.mp4", "b.mp4"}, "joined.mp4")
	joined := strings.Join(builder.BuildArgs(), " ")

	for _, want := range []string{"-f concat", "-safe 0", "-i joined.mp4.files.txt", "-c copy", "-y joined.mp4"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestBuilder_BuildArgs_Reencode(t *testing.T) {
	builder := NewBuilder([]string{"a.mp4", "b.mp4"}, "joined.mp4").
		SetCopyStreams(false).
		SetVideoCodec("libx265").
		SetAudioCodec("libopus")
	joined := strings.Join(builder.BuildArgs(), " ")

	if strings.Contains(joined, "-c copy") {
		t.Errorf("re-encode mode should not stream copy: %s", joined)
	}
	for _, want := range []string{"-c:v libx265", "-c:a libopus"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestBuilder_WriteListFile(t *testing.T) {
	dir := t.TempDir()
	builder := NewBuilder([]string{dir + "/it's.mp4", dir + "/b.mp4"}, dir+"/joined.mp4")

	if err := builder.writeListFile(); err != nil {
		t.Fatalf("writeListFile returned error: %v", err)
	}

	data, err := os.ReadFile(builder.listPath())
	if err != nil {
		t.Fatalf("failed to read list file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines; want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "file '") {
		t.Errorf("line format wrong: %s", lines[0])
	}
	if !strings.Contains(lines[0], `'\''`) {
		t.Errorf("single quote should be escaped: %s", lines[0])
	}
}
