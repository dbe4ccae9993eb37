package models

import (
	"encoding/json"
	"testing"
)

func TestParamValue_CoercesNumericStrings(t *testing.T) {
	var params map[string]ParamValue
	payload := `{"temperature": "0.7", "top_p": 0.9, "stop": "###", "echo": true}`
	if err := json.Unmarshal([]byte(payload), &params); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p := params["temperature"]; !p.IsNumber || p.Number != 0.7 {
		t.Errorf("temperature not coerced: %+v", p)
	}
	if p := params["top_p"]; !p.IsNumber || p.Number != 0.9 {
		t.Errorf("top_p wrong: %+v", p)
	}
	if p := params["stop"]; p.IsNumber || p.Str != "###" {
		t.Errorf("stop should stay a string: %+v", p)
	}
	if p := params["echo"]; !p.IsNumber || p.Number != 1 {
		t.Errorf("booleans coerce to 0/1: %+v", p)
	}
}

func TestParamValue_StringAndNumberFormsMarshalIdentically(t *testing.T) {
	var a, b ParamValue
	json.Unmarshal([]byte(`"0.7"`), &a)
	json.Unmarshal([]byte(`0.7`), &b)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("coerced forms diverge: %s vs %s", ja, jb)
	}
	if string(ja) != "0.7" {
		t.Errorf("expected 0.7, got %s", ja)
	}
}

func TestChatRequest_MessageText(t *testing.T) {
	var req ChatRequest
	json.Unmarshal([]byte(`{"message": "hello"}`), &req)
	if text, ok := req.MessageText(); !ok || text != "hello" {
		t.Errorf("got %q %v", text, ok)
	}

	var structured ChatRequest
	json.Unmarshal([]byte(`{"message": [{"type": "text", "text": "hi"}]}`), &structured)
	if _, ok := structured.MessageText(); ok {
		t.Error("structured content should not be treated as text")
	}
}
