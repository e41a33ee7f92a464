package secret

import "testing"

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	v, err := s.Get("missing")
	if err != nil || len(v) != 0 {
		t.Fatalf("Get(missing) = %q, %v; want empty, nil", v, err)
	}

	value := []byte("postgres://host/db")
	if err := s.Set("prod", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'
	got, _ := s.Get("prod")
	if string(got) != "postgres://host/db" {
		t.Errorf("Get(prod) = %q, stored value must not alias the caller's slice", got)
	}

	if err := s.Delete("prod"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("prod"); got != nil {
		t.Errorf("Get after Delete = %q, want nil", got)
	}
}
