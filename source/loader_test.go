package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "profile.png")
	if err := os.WriteFile(file, pngBytes(t, color.RGBA{10, 20, 30, 255}), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(dir, "/Myportfolio/", time.Second)
	img, err := l.Load(context.Background(), "/Myportfolio/profile.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("unexpected pixel (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background(), "/Myportfolio/profile.png"); err != nil {
		t.Errorf("expected cached image after removal, got %v", err)
	}
}

func TestLoadLocalErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(dir, "/", time.Second)
	for _, src := range []string{"/missing.webp", "/broken.jpg", "/"} {
		if _, err := l.Load(context.Background(), src); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}

	if _, err := New("", "/", time.Second).Load(context.Background(), "/a.png"); !errors.Is(err, ErrNoPublicDir) {
		t.Errorf("expected ErrNoPublicDir, got %v", err)
	}
}

func TestRel(t *testing.T) {
	l := &Loader{BasePath: "/Myportfolio/"}
	tests := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{"/Myportfolio/profile.jpg", "profile.jpg", false},
		{"/Myportfolio/img/me.webp?v=2", "img/me.webp", false},
		{"/Myportfolio/../../etc/passwd", "etc/passwd", false},
		{"profile.jpg", "profile.jpg", false},
		{"/Myportfolio/", "", true},
		{"/Myportfolio", "", true},
		{"/Myportfolio2/secret.png", "", true},
		{"/elsewhere/a.png", "", true},
		{"/Myportfolio?v=1", "", true},
		{"https://example.com/a.png", "", true},
	}

	for _, tt := range tests {
		got, err := l.Rel(tt.src)
		if (err != nil) != tt.wantErr {
			t.Errorf("Rel(%q): unexpected error state: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Rel(%q): expected %q, got %q", tt.src, tt.want, got)
		}
	}
}

func TestRelRootBase(t *testing.T) {
	for _, base := range []string{"", "/"} {
		l := &Loader{BasePath: base}
		got, err := l.Rel("/img/me.png")
		if err != nil || got != "img/me.png" {
			t.Errorf("base %q: expected img/me.png, got %q, %v", base, got, err)
		}
	}
}

func TestRelOutsideBase(t *testing.T) {
	l := &Loader{BasePath: "/Myportfolio/"}
	if _, err := l.Rel("/Myportfolio2/secret.png"); !errors.Is(err, ErrOutsidePublic) {
		t.Errorf("expected ErrOutsidePublic, got %v", err)
	}
}

func TestLoadRemote(t *testing.T) {
	body := pngBytes(t, color.RGBA{200, 100, 50, 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avatar.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	l := New("", "/", time.Second)
	l.Client = srv.Client()

	if _, err := l.Load(context.Background(), srv.URL+"/avatar.png"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadRemoteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New("", "/", time.Minute)
	if _, err := l.Load(ctx, srv.URL+"/slow.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("/Myportfolio/", "octocat")
	want := []string{
		"/Myportfolio/profile.webp",
		"/Myportfolio/profile.jpg",
		"https://github.com/octocat.png?size=320",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := Candidates("/site", ""); !slices.Equal(got, []string{"/site/profile.webp", "/site/profile.jpg"}) {
		t.Errorf("unexpected candidates without GitHub user: %v", got)
	}

	if !IsRemote(GitHubAvatar("x")) || IsRemote("/profile.jpg") {
		t.Error("IsRemote misclassified a source")
	}
}
