// Package components ships the builtin demo components the CLI resolves
// manifest component names against. Each implements the Mount/Update/Unmount
// contract and renders its markup through templ.
package components

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/weld/internal/types"
)

// Builtin returns the component table for manifest resolution.
func Builtin() map[string]types.Renderable {
	return map[string]types.Renderable{
		"greeting": &Greeting{},
		"counter":  &Counter{},
	}
}

// render draws a templ component into the element's container.
func render(c types.Container, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return err
	}
	c.SetHTML(buf.String())
	return nil
}

// Greeting renders a salutation from its name and excited props and offers a
// syncRequest event through the conventional callback prop.
type Greeting struct{}

type greetingHandle struct {
	container types.Container
}

// Mount implements types.Renderable
func (g *Greeting) Mount(c types.Container, props types.Props) (types.Handle, error) {
	h := &greetingHandle{container: c}
	if err := g.draw(h, props); err != nil {
		return nil, err
	}
	return h, nil
}

// Update implements types.Renderable
func (g *Greeting) Update(h types.Handle, props types.Props) error {
	gh, ok := h.(*greetingHandle)
	if !ok {
		return fmt.Errorf("greeting: foreign handle %T", h)
	}
	return g.draw(gh, props)
}

// Unmount implements types.Renderable
func (g *Greeting) Unmount(h types.Handle) error {
	gh, ok := h.(*greetingHandle)
	if !ok {
		return fmt.Errorf("greeting: foreign handle %T", h)
	}
	gh.container.SetHTML("")
	return nil
}

func (g *Greeting) draw(h *greetingHandle, props types.Props) error {
	name, _ := props["name"].(string)
	if name == "" {
		name = "world"
	}
	excited, _ := props["excited"].(bool)

	return render(h.container, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		punctuation := "."
		if excited {
			punctuation = "!"
		}
		_, err := fmt.Fprintf(w, `<p class="greeting">Hello, %s%s</p>`,
			templ.EscapeString(name), punctuation)
		return err
	}))
}

// Counter renders a count it owns internally, seeded from the start prop on
// mount and incremented on every update. The internal count surviving
// updates demonstrates that an update preserves the mounted instance instead
// of replacing it.
type Counter struct{}

type counterHandle struct {
	container types.Container
	count     float64
	label     string
}

// Mount implements types.Renderable
func (c *Counter) Mount(container types.Container, props types.Props) (types.Handle, error) {
	h := &counterHandle{container: container}
	if start, ok := props["start"].(float64); ok {
		h.count = start
	}
	c.apply(h, props)
	if err := c.draw(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Update implements types.Renderable
func (c *Counter) Update(h types.Handle, props types.Props) error {
	ch, ok := h.(*counterHandle)
	if !ok {
		return fmt.Errorf("counter: foreign handle %T", h)
	}
	ch.count++
	c.apply(ch, props)
	return c.draw(ch)
}

// Unmount implements types.Renderable
func (c *Counter) Unmount(h types.Handle) error {
	ch, ok := h.(*counterHandle)
	if !ok {
		return fmt.Errorf("counter: foreign handle %T", h)
	}
	ch.container.SetHTML("")
	return nil
}

func (c *Counter) apply(h *counterHandle, props types.Props) {
	if label, ok := props["label"].(string); ok {
		h.label = label
	}
	if notify, ok := props["onCountChanged"].(types.Callable); ok {
		notify(map[string]any{"count": h.count})
	}
}

func (c *Counter) draw(h *counterHandle) error {
	return render(h.container, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := h.label
		if label == "" {
			label = "count"
		}
		_, err := fmt.Fprintf(w, `<div class="counter"><span>%s:</span> <strong>%g</strong></div>`,
			templ.EscapeString(label), h.count)
		return err
	}))
}
