package record

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
)

func TestProcess(t *testing.T) {
	input := "alpha\nbeta\ngamma\n"
	p := NewProcessor(func(line []byte) ([]byte, error) {
		return append(bytes.ToUpper(line), '\n'), nil
	}, WithWorkers(4))
	var buf bytes.Buffer
	if err := p.Process(context.Background(), strings.NewReader(input), &buf); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := strings.Fields(buf.String())
	sort.Strings(got)
	want := []string{"ALPHA", "BETA", "GAMMA"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestProcessSkipsNilResults(t *testing.T) {
	input := "keep\ndrop\nkeep\n"
	p := NewProcessor(func(line []byte) ([]byte, error) {
		if string(line) == "drop" {
			return nil, nil
		}
		return append(line, '\n'), nil
	}, WithWorkers(2))
	var buf bytes.Buffer
	if err := p.Process(context.Background(), strings.NewReader(input), &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "keep"); got != 2 {
		t.Errorf("got %d records, want 2: %q", got, buf.String())
	}
}

func TestProcessPropagatesError(t *testing.T) {
	fail := errors.New("boom")
	p := NewProcessor(func(line []byte) ([]byte, error) {
		if string(line) == "bad" {
			return nil, fail
		}
		return append(line, '\n'), nil
	}, WithWorkers(2))
	var buf bytes.Buffer
	err := p.Process(context.Background(), strings.NewReader("ok\nbad\nok\n"), &buf)
	if !errors.Is(err, fail) {
		t.Errorf("got %v, want %v", err, fail)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	p := NewProcessor(func(line []byte) ([]byte, error) {
		return append(line, '\n'), nil
	})
	var buf bytes.Buffer
	if err := p.Process(context.Background(), strings.NewReader(""), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("got %q, want empty output", buf.String())
	}
}

func TestProcessCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProcessor(func(line []byte) ([]byte, error) {
		return append(line, '\n'), nil
	}, WithWorkers(1))
	var buf bytes.Buffer
	lines := strings.Repeat("line\n", 10000)
	if err := p.Process(ctx, strings.NewReader(lines), &buf); err == nil {
		t.Error("expected context error")
	}
}
