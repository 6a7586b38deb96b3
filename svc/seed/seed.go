package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/socialdash/dashboard/svc/notifications"
	"github.com/socialdash/dashboard/svc/posts"
)

//go:embed default.yaml
var defaultSeed []byte

// ErrDuplicatePostID is returned when two seeded posts share an id.
var ErrDuplicatePostID = errors.New("seed: duplicate post id")

// Data is the initial content of the feed and the notification inbox.
type Data struct {
	Posts         []posts.Post                 `yaml:"posts"`
	Notifications []notifications.Notification `yaml:"notifications"`
}

// Default returns the built-in seed.
func Default() Data {
	d, err := Parse(bytes.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("seed: embedded default is invalid: %v", err))
	}
	return d
}

// Load reads a seed file. An empty path returns Default.
func Load(path string) (Data, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML seed data. Unknown fields are rejected.
func Parse(r io.Reader) (Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Data{}, fmt.Errorf("seed: decode: %w", err)
	}

	ids := make(map[int64]struct{}, len(d.Posts))
	for _, p := range d.Posts {
		if _, ok := ids[p.ID]; ok {
			return Data{}, fmt.Errorf("%w: %d", ErrDuplicatePostID, p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	return d, nil
}
