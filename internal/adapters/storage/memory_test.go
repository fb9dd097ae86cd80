package storage

import (
	"bytes"
	"context"
	"reflect"
	"testing"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	if err := store.Put(ctx, "users/1", []byte("ada")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	value, err := store.Get(ctx, "users/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(value, []byte("ada")) {
		t.Errorf("Get = %q", value)
	}

	if err := store.Delete(ctx, "users/1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "users/1"); !IsNotFound(err) {
		t.Errorf("Get after delete: %v", err)
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "absent"); !IsNotFound(err) {
		t.Errorf("Get absent: %v", err)
	}
	if err := store.Delete(ctx, "absent"); !IsNotFound(err) {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestMemoryStoreInvalidKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, ""); err == nil {
		t.Error("expected error for empty key")
	}
	if err := store.Put(ctx, "", []byte("x")); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, key := range []string{"users/2", "users/1", "orders/1"} {
		if err := store.Put(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"users/", []string{"users/1", "users/2"}},
		{"orders/", []string{"orders/1"}},
		{"", []string{"orders/1", "users/1", "users/2"}},
		{"missing/", []string{}},
	}

	for _, tt := range tests {
		got, err := store.List(ctx, tt.prefix)
		if err != nil {
			t.Fatalf("List(%q): %v", tt.prefix, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("List(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte("immutable")
	if err := store.Put(ctx, "k", original); err != nil {
		t.Fatalf("Put: %v", err)
	}
	original[0] = 'X'

	value, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(value) != "immutable" {
		t.Errorf("stored value aliased caller slice: %q", value)
	}
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, key := range []string{"a/1", "a/2", "b/1"} {
		if err := store.Put(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	tests := []struct {
		name    string
		expr    string
		want    []string
		wantErr bool
	}{
		{
			name: "exact hit",
			expr: "key:a/1",
			want: []string{"a/1"},
		},
		{
			name: "exact miss",
			expr: "key:zzz",
			want: []string{},
		},
		{
			name: "prefix",
			expr: "prefix:a/",
			want: []string{"a/1", "a/2"},
		},
		{
			name:    "unsupported operator fails fast",
			expr:    "between:a/1",
			wantErr: true,
		},
		{
			name:    "missing operator fails fast",
			expr:    "a/1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(ctx, store, tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Query(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
