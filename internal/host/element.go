package host

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// CustomEvent is the payload dispatched on an element. Detail carries the
// synthetic payload; events do not bubble unless Bubbles is set (bridged
// events never set it).
type CustomEvent struct {
	Type    string
	Detail  any
	Bubbles bool
}

// Listener handles a dispatched event.
type Listener func(ev CustomEvent)

// ListenerHandle identifies one installed listener for later removal.
type ListenerHandle struct {
	eventType string
	id        int
}

// Accessor is a property get/set pair installed on an element. The bridge
// defines one per PropSpec.
type Accessor struct {
	Get func() any
	Set func(value any) error
}

// Callbacks is the custom-element lifecycle contract an element class
// installs on its instances.
type Callbacks struct {
	// Connected fires on DOM insertion
	Connected func() error
	// Disconnected fires on DOM removal
	Disconnected func()
	// AttributeChanged fires for observed attributes only; value is nil on
	// removal
	AttributeChanged func(name string, value *string)
}

// Element is one host element instance. All mutation happens within document
// turns; the mutex exists for cross-goroutine test drivers and inspection.
type Element struct {
	doc *Document
	tag string

	mutex     sync.RWMutex
	attrs     map[string]string
	observed  map[string]bool
	props     map[string]Accessor
	listeners map[string]map[int]Listener
	nextID    int
	callbacks Callbacks
	connected bool

	container RenderContainer
}

// Doc returns the owning document.
func (e *Element) Doc() *Document { return e.doc }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// SetCallbacks installs the lifecycle contract. Called once by the element
// class during construction.
func (e *Element) SetCallbacks(cb Callbacks) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.callbacks = cb
}

// ObserveAttributes declares the attribute names AttributeChanged fires for.
// Mutations of any other attribute are left to native semantics.
func (e *Element) ObserveAttributes(names []string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for _, n := range names {
		e.observed[n] = true
	}
}

// ObservedAttributes returns the observed attribute names, sorted.
func (e *Element) ObservedAttributes() []string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	out := make([]string, 0, len(e.observed))
	for n := range e.observed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SetAttribute writes an attribute and, for observed names, fires the
// attributeChangedCallback synchronously, matching platform semantics.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	e.mutex.Lock()
	e.attrs[name] = value
	cb := e.callbacks.AttributeChanged
	watched := e.observed[name]
	e.mutex.Unlock()

	if watched && cb != nil {
		v := value
		cb(name, &v)
	}
}

// RemoveAttribute deletes an attribute; observed names see a nil value.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	e.mutex.Lock()
	_, existed := e.attrs[name]
	delete(e.attrs, name)
	cb := e.callbacks.AttributeChanged
	watched := e.observed[name]
	e.mutex.Unlock()

	if existed && watched && cb != nil {
		cb(name, nil)
	}
}

// Attribute returns the current attribute string.
func (e *Element) Attribute(name string) (string, bool) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// DefineProperty installs a property accessor under a camelCase name.
func (e *Element) DefineProperty(name string, acc Accessor) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.props[name] = acc
}

// SetProperty invokes the installed setter for name. Undefined properties
// are ignored, as plain expando assignment would be.
func (e *Element) SetProperty(name string, value any) error {
	e.mutex.RLock()
	acc, ok := e.props[name]
	e.mutex.RUnlock()
	if !ok || acc.Set == nil {
		return nil
	}
	return acc.Set(value)
}

// Property invokes the installed getter for name.
func (e *Element) Property(name string) (any, bool) {
	e.mutex.RLock()
	acc, ok := e.props[name]
	e.mutex.RUnlock()
	if !ok || acc.Get == nil {
		return nil, false
	}
	return acc.Get(), true
}

// AddEventListener installs a listener for an event type and returns a
// handle for removal.
func (e *Element) AddEventListener(eventType string, fn Listener) ListenerHandle {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.listeners[eventType] == nil {
		e.listeners[eventType] = make(map[int]Listener)
	}
	e.nextID++
	e.listeners[eventType][e.nextID] = fn
	return ListenerHandle{eventType: eventType, id: e.nextID}
}

// RemoveEventListener removes a previously installed listener.
func (e *Element) RemoveEventListener(h ListenerHandle) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if m, ok := e.listeners[h.eventType]; ok {
		delete(m, h.id)
	}
}

// DispatchEvent delivers ev to all listeners for its type, synchronously and
// in installation order.
func (e *Element) DispatchEvent(ev CustomEvent) {
	e.mutex.RLock()
	m := e.listeners[ev.Type]
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m[id])
	}
	e.mutex.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Connect inserts the element into the document, firing connectedCallback.
func (e *Element) Connect() error {
	e.mutex.Lock()
	if e.connected {
		e.mutex.Unlock()
		return nil
	}
	e.connected = true
	cb := e.callbacks.Connected
	e.mutex.Unlock()

	if cb != nil {
		return cb()
	}
	return nil
}

// Disconnect removes the element from the document, firing
// disconnectedCallback.
func (e *Element) Disconnect() {
	e.mutex.Lock()
	if !e.connected {
		e.mutex.Unlock()
		return
	}
	e.connected = false
	cb := e.callbacks.Disconnected
	e.mutex.Unlock()

	if cb != nil {
		cb()
	}
}

// Connected reports whether the element is currently in the document.
func (e *Element) Connected() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.connected
}

// Container returns the render slot the wrapped component's output lands in.
func (e *Element) Container() *RenderContainer {
	return &e.container
}

// RenderContainer holds the wrapped component's rendered markup. It
// implements types.Container.
type RenderContainer struct {
	mutex sync.RWMutex
	html  string
}

// SetHTML replaces the container content. A new render replaces, never
// duplicates, the prior output.
func (c *RenderContainer) SetHTML(markup string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.html = markup
}

// HTML returns the current content.
func (c *RenderContainer) HTML() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.html
}

// Parse returns the container content as a parsed node tree for inspection.
func (c *RenderContainer) Parse() (*html.Node, error) {
	return html.Parse(strings.NewReader(c.HTML()))
}

// Text returns the concatenated text content of the container's markup,
// which is what most assertions care about.
func (c *RenderContainer) Text() (string, error) {
	root, err := c.Parse()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return b.String(), nil
}
