package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type entry struct {
	src     Source
	img     image.Image
	err     error
	started bool
	done    chan struct{}
}

// Cache decodes each source at most once, in the background, and keeps the
// result keyed by content. A render may ask for an image before it is ready;
// it gets "not ready" and tries again next frame.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	sem     chan struct{}
	log     *logrus.Entry
	onReady func(Key)
}

// NewCache creates a cache that decodes at most workers images at a time.
func NewCache(workers int, log *logrus.Entry) *Cache {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Cache{
		entries: make(map[Key]*entry),
		sem:     make(chan struct{}, workers),
		log:     log,
	}
}

// OnReady registers a callback fired after every decode, success or not.
func (c *Cache) OnReady(fn func(Key)) {
	c.mu.Lock()
	c.onReady = fn
	c.mu.Unlock()
}

// Add registers a source. Adding the same bytes twice is a no-op.
func (c *Cache) Add(src Source) Key {
	if src.Key == "" {
		src.Key = KeyOf(src.Data)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[src.Key]; !ok {
		c.entries[src.Key] = &entry{src: src, done: make(chan struct{})}
	}
	return src.Key
}

// Source returns the registered source for k.
func (c *Cache) Source(k Key) (Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return Source{}, false
	}
	return e.src, true
}

// Lookup returns the decoded image if it is ready. The first call for a key
// starts decoding; it never blocks.
func (c *Cache) Lookup(k Key) (image.Image, bool) {
	img, err := c.Get(k)
	return img, err == nil
}

// Get is Lookup with the reason: ErrPending, ErrUnknown or the decode error.
func (c *Cache) Get(k Key) (image.Image, error) {
	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknown, k.Short())
	}
	c.startLocked(e)
	c.mu.Unlock()

	select {
	case <-e.done:
		if e.err != nil {
			return nil, e.err
		}
		return e.img, nil
	default:
		return nil, ErrPending
	}
}

// Err reports the decode error for k, nil while pending or on success.
func (c *Cache) Err(k Key) error {
	_, err := c.Get(k)
	if err == ErrPending {
		return nil
	}
	return err
}

// Wait starts decoding every key and blocks until all have finished or ctx
// is done. Decode failures are not returned here; inspect them with Err.
func (c *Cache) Wait(ctx context.Context, keys ...Key) error {
	var waits []chan struct{}
	c.mu.Lock()
	for _, k := range keys {
		e, ok := c.entries[k]
		if !ok {
			continue
		}
		c.startLocked(e)
		waits = append(waits, e.done)
	}
	c.mu.Unlock()

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Cache) startLocked(e *entry) {
	if e.started {
		return
	}
	e.started = true
	go c.decode(e)
}

func (c *Cache) decode(e *entry) {
	c.sem <- struct{}{}
	img, err := imaging.Decode(bytes.NewReader(e.src.Data), imaging.AutoOrientation(true))
	<-c.sem

	log := c.log.WithFields(logrus.Fields{"photo": e.src.Key.Short(), "name": e.src.Name})
	if err != nil {
		e.err = fmt.Errorf("%w: %s: %v", ErrDecode, e.src.Name, err)
		log.WithError(err).Warn("decode failed")
	} else {
		e.img = img
		log.WithField("size", img.Bounds().Size()).Debug("decoded")
	}
	close(e.done)

	c.mu.Lock()
	fn := c.onReady
	c.mu.Unlock()
	if fn != nil {
		fn(e.src.Key)
	}
}
