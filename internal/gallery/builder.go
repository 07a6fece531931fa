package gallery

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/classmark/classmark/internal/database"
)

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Builder scans a directory of enrollment-keyed photos and turns each one
// into a gallery entry. The photo's base name (without extension) is the
// enrollment code; "CS101.jpg" enrolls identity CS101.
type Builder struct {
	detector FaceDetector
	roster   database.RosterReader
	cache    database.EmbeddingCache // optional, nil disables caching

	// Warnf receives one line per skipped photo. Defaults to stderr.
	Warnf func(format string, args ...any)
	// Progress, if set, is called once per examined photo.
	Progress func()
}

// NewBuilder creates a gallery builder. roster may be nil, in which case
// every entry keeps "Unknown" as its display name. cache may be nil.
func NewBuilder(detector FaceDetector, roster database.RosterReader, cache database.EmbeddingCache) *Builder {
	return &Builder{
		detector: detector,
		roster:   roster,
		cache:    cache,
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Build walks dir non-recursively and returns one entry per usable photo,
// ordered by enrollment code. Unreadable files, unsupported extensions and
// photos without a detectable face are skipped with a warning; only the
// directory itself being unreadable is an error.
func (b *Builder) Build(ctx context.Context, dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery directory %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !supportedExtensions[ext] {
			continue
		}

		enrollment := database.NormalizeEnrollment(strings.TrimSuffix(name, filepath.Ext(name)))
		if enrollment == "" {
			continue
		}

		entry, ok, err := b.buildEntry(ctx, dir, name, enrollment)
		if b.Progress != nil {
			b.Progress()
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Enrollment < entries[j].Enrollment
	})

	return entries, nil
}

// buildEntry processes one photo. Returns ok=false for skippable problems
// (unreadable file, no face) and an error only for infrastructure failures.
func (b *Builder) buildEntry(ctx context.Context, dir, fileName, enrollment string) (Entry, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		b.Warnf("skipping %s: %v", fileName, err)
		return Entry{}, false, nil
	}

	fileHash := hashBytes(data)

	embedding, err := b.embeddingFor(ctx, enrollment, fileHash, data)
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to embed %s: %w", fileName, err)
	}
	if embedding == nil {
		b.Warnf("skipping %s: no face detected", fileName)
		return Entry{}, false, nil
	}

	entry := Entry{
		Enrollment: enrollment,
		Name:       "Unknown",
		Photo:      fileName,
		Embedding:  embedding,
	}

	if b.roster != nil {
		name, found, err := b.roster.Lookup(ctx, enrollment)
		if err != nil {
			return Entry{}, false, fmt.Errorf("roster lookup for %s: %w", enrollment, err)
		}
		if found {
			entry.Name = name
		}
	}

	return entry, true, nil
}

// embeddingFor returns the embedding for one photo, consulting the cache
// first. A nil embedding with nil error means no face was detected. Cache
// failures are logged and the embedding is recomputed; the cache can never
// fail a build.
func (b *Builder) embeddingFor(ctx context.Context, enrollment, fileHash string, data []byte) ([]float32, error) {
	if b.cache != nil {
		cached, err := b.cache.Get(ctx, enrollment, fileHash)
		if err != nil {
			b.Warnf("embedding cache lookup for %s: %v", enrollment, err)
		} else if cached != nil {
			return cached.Embedding, nil
		}
	}

	result, err := b.detector.DetectFaces(ctx, data)
	if err != nil {
		return nil, err
	}
	if result.FacesCount == 0 || len(result.Faces) == 0 {
		return nil, nil
	}

	// A reference photo should hold exactly one face; with more than one,
	// take the detection the model is most confident about.
	best := result.Faces[0]
	for _, f := range result.Faces[1:] {
		if f.DetScore > best.DetScore {
			best = f
		}
	}

	if b.cache != nil {
		err := b.cache.Put(ctx, &database.CachedEmbedding{
			Enrollment: enrollment,
			FileHash:   fileHash,
			Embedding:  best.Embedding,
			Dim:        best.Dim,
			Model:      result.Model,
		})
		if err != nil {
			b.Warnf("embedding cache store for %s: %v", enrollment, err)
		}
	}

	return best.Embedding, nil
}

func hashBytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
