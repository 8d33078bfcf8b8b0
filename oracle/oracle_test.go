package oracle

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blocklayer/tinyevm/types"
)

func TestFixedOracle(t *testing.T) {
	want := types.HexToHash("0x" + strings.Repeat("11", 32))
	f := NewFixed(nil)
	f.Set(5, want)
	got, found := f.GetAncestorHash(5)
	if !found || got != want {
		t.Fatalf("GetAncestorHash(5) = (%v,%v), want (%v,true)", got, found, want)
	}
	if _, found := f.GetAncestorHash(6); found {
		t.Fatalf("GetAncestorHash(6) found=true, want false")
	}
}

func TestJSONRPCGetAncestorHash(t *testing.T) {
	wantHash := "0x" + strings.Repeat("ab", 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method != "eth_getBlockByNumber" {
			t.Errorf("unexpected method %q", req.Method)
		}
		resp := rpcResponse{Result: json.RawMessage(`{"hash":"` + wantHash + `"}`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	o := NewJSONRPC(srv.URL, nil)
	got, found := o.GetAncestorHash(42)
	if !found {
		t.Fatalf("expected found=true")
	}
	if got.Hex() != wantHash {
		t.Fatalf("got %s, want %s", got.Hex(), wantHash)
	}
}

func TestJSONRPCGetAncestorHashNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := rpcResponse{Result: json.RawMessage(`null`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	o := NewJSONRPC(srv.URL, nil)
	if _, found := o.GetAncestorHash(1); found {
		t.Fatalf("expected found=false for null block result")
	}
}
