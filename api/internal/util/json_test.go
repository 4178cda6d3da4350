package util

import (
	"errors"
	"testing"

	"recycle-lens/api/internal/llm"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "object passes through", raw: `{"object":"bottle","materials":["plastic"]}`, want: `{"object":"bottle","materials":["plastic"]}`},
		{name: "surrounding whitespace trimmed", raw: "\n  {\"a\": 1}\n", want: `{"a": 1}`},
		{name: "key order and spacing kept", raw: `{"z": 1, "a": [1, 2.50]}`, want: `{"z": 1, "a": [1, 2.50]}`},
		{name: "array is valid json", raw: `[1,2]`, want: `[1,2]`},
		{name: "empty", raw: "", wantErr: true},
		{name: "prose", raw: "Sure! Here is the JSON you asked for.", wantErr: true},
		{name: "code fenced", raw: "```json\n{\"a\":1}\n```", wantErr: true},
		{name: "truncated", raw: `{"object":"bottle","materials":["plas`, wantErr: true},
		{name: "two documents", raw: `{"a":1}{"b":2}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseJSON(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, llm.ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ParseJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}
