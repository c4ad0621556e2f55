package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPinataUpload(t *testing.T) {
	var gotAPIKey, gotSecret, gotFileName string
	var gotContent []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pinning/pinFileToIPFS" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("pinata_api_key")
		gotSecret = r.Header.Get("pinata_secret_api_key")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotFileName = header.Filename
		gotContent, _ = io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmTestHash"})
	}))
	defer srv.Close()

	client, err := NewPinataClient(PinataConfig{
		BaseURL:      srv.URL,
		GatewayURL:   "https://gw.example/ipfs",
		APIKey:       "key",
		SecretAPIKey: "secret",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	pin, err := client.Upload(context.Background(), "pepe_mentions_abc.json", []byte(`[{"token":"PEPE"}]`))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if pin.CID != "QmTestHash" {
		t.Fatalf("unexpected cid: %s", pin.CID)
	}
	if pin.GatewayURL != "https://gw.example/ipfs/QmTestHash" {
		t.Fatalf("unexpected gateway url: %s", pin.GatewayURL)
	}
	if gotAPIKey != "key" || gotSecret != "secret" {
		t.Fatalf("auth headers not set: %q %q", gotAPIKey, gotSecret)
	}
	if gotFileName != "pepe_mentions_abc.json" {
		t.Fatalf("unexpected file name: %s", gotFileName)
	}
	if !strings.Contains(string(gotContent), "PEPE") {
		t.Fatalf("content not uploaded: %s", gotContent)
	}
}

func TestPinataUploadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewPinataClient(PinataConfig{
		BaseURL:      srv.URL,
		APIKey:       "key",
		SecretAPIKey: "secret",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Upload(context.Background(), "f.json", []byte("[]")); err == nil {
		t.Fatalf("expect error on 401")
	}
}

func TestPinataRequiresKeys(t *testing.T) {
	if _, err := NewPinataClient(PinataConfig{APIKey: "key"}, nil); err == nil {
		t.Fatalf("expect error when secret key missing")
	}
}
