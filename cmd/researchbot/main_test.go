package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type sample struct {
	ChainUsed string   `json:"chain_used"`
	Tools     []string `json:"tools_used"`
}

func TestPrintStructured(t *testing.T) {
	v := sample{ChainUsed: "Math Chain", Tools: []string{"Calculator"}}

	var buf bytes.Buffer
	handled, err := printStructured(&buf, "text", v)
	if handled || err != nil || buf.Len() != 0 {
		t.Fatalf("text output should be left to the caller: handled=%v err=%v", handled, err)
	}

	buf.Reset()
	if handled, err = printStructured(&buf, "json", v); !handled || err != nil {
		t.Fatalf("json: handled=%v err=%v", handled, err)
	}
	if !strings.Contains(buf.String(), `"chain_used": "Math Chain"`) {
		t.Fatalf("unexpected json output %s", buf.String())
	}

	buf.Reset()
	if handled, err = printStructured(&buf, "YAML", v); !handled || err != nil {
		t.Fatalf("yaml: handled=%v err=%v", handled, err)
	}
	if !strings.Contains(buf.String(), "chain_used: Math Chain") || !strings.Contains(buf.String(), "- Calculator") {
		t.Fatalf("yaml should use json field names, got %s", buf.String())
	}

	if _, err = printStructured(&buf, "xml", v); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"short":               "****",
		"AIzaSyExampleKey123": "AIza****y123",
	}
	for in, want := range cases {
		if got := mask(in); got != want {
			t.Fatalf("mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBlankQueriesAreRejected(t *testing.T) {
	for name, run := range map[string]func(*cobra.Command, []string) error{
		"search": runSearch,
		"ask":    runAsk,
	} {
		if err := run(&cobra.Command{}, []string{"  ", "\t"}); err == nil || !strings.Contains(err.Error(), "must not be empty") {
			t.Fatalf("%s: expected empty query error, got %v", name, err)
		}
	}
}
