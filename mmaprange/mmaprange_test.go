package mmaprange

import "testing"

func TestCreateMappedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	defer m.Close()

	r, err := m.CreateMapped(16, ".scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	data := r.Data()
	copy(data, []byte("hello mmaprange!"))
	if string(data[:5]) != "hello" {
		t.Fatalf("got %q", data[:5])
	}
}

func TestWriteReadCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	defer m.Close()

	payload := []byte("AAAACCCCGGGGTTTTAAAACCCCGGGGTTTT")
	path, err := m.WriteCompressed(payload, ".snz")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %q want %q", got, payload)
	}
}
