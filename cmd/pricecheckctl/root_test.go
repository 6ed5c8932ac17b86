package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	compareuc "github.com/kailas-cloud/pricecheck/internal/usecase/compare"
)

type fakeComparer struct {
	env envelope.Envelope
	err error
	got compareuc.Input
}

func (f *fakeComparer) Compare(_ context.Context, in compareuc.Input) (envelope.Envelope, error) {
	f.got = in
	return f.env, f.err
}

func TestRunCompare_PrintsEnvelope(t *testing.T) {
	f := &fakeComparer{env: envelope.NoResults("widen the radius", nil)}
	opts := &compareOptions{address: "Haifa", radius: 4, list: "milk", web: true, provider: "gemini"}

	var out bytes.Buffer
	if err := runCompare(context.Background(), f, opts, &out); err != nil {
		t.Fatalf("runCompare: %v", err)
	}

	want := compareuc.Input{Address: "Haifa", RadiusKM: 4, ListText: "milk", UseWeb: true, Provider: "gemini"}
	if diff := cmp.Diff(want, f.got); diff != "" {
		t.Errorf("input mismatch (-want +got):\n%s", diff)
	}
	if got := strings.TrimSpace(out.String()); got != `{"status":"no_results","message":"widen the radius"}` {
		t.Errorf("output = %s", got)
	}
}

func TestRunCompare_NeedInputExitCode(t *testing.T) {
	f := &fakeComparer{env: envelope.NeedInput([]string{"address"})}
	err := runCompare(context.Background(), f, &compareOptions{list: "milk"}, &bytes.Buffer{})
	if exitCode(err) != exitNeedInput {
		t.Errorf("exit code = %d, want %d (err %v)", exitCode(err), exitNeedInput, err)
	}
}

func TestRunCompare_ProviderErrorEnvelope(t *testing.T) {
	pe := domain.NewProviderError(domain.CapabilityModel, "openai", 401, "invalid key")
	f := &fakeComparer{err: fmt.Errorf("generate: %w", pe)}

	var out bytes.Buffer
	err := runCompare(context.Background(), f, &compareOptions{pretty: true}, &out)
	if !errors.Is(err, domain.ErrModelFailed) {
		t.Fatalf("expected ErrModelFailed, got %v", err)
	}
	if exitCode(err) != exitFailure {
		t.Errorf("exit code = %d, want %d", exitCode(err), exitFailure)
	}

	var env envelope.Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if env.Status != envelope.StatusError || env.Message != "model provider error" {
		t.Errorf("unexpected envelope: %+v", env)
	}
	details, ok := env.Details.(map[string]any)
	if !ok || details["status_code"] != float64(401) || details["body"] != "invalid key" {
		t.Errorf("unexpected details: %#v", env.Details)
	}
}

func TestReadList_Stdin(t *testing.T) {
	got, err := readList("-", strings.NewReader("milk\nbread\n"))
	if err != nil {
		t.Fatalf("readList: %v", err)
	}
	if got != "milk\nbread\n" {
		t.Errorf("got %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "pricecheck ") {
		t.Errorf("output = %q", out.String())
	}
}
