package session

import "sync"

type Key int

const (
	KeyUnknown Key = iota
	KeyArrowRight
	KeyArrowLeft
	KeySpace
	KeyEscape
	KeyEnter
	KeyRune
)

// KeyEvent is one key press. Listeners call PreventDefault to keep the host
// from running its own binding for the key.
type KeyEvent struct {
	Key       Key
	Rune      rune
	prevented bool
}

func (e *KeyEvent) PreventDefault() {
	e.prevented = true
}

func (e *KeyEvent) DefaultPrevented() bool {
	return e.prevented
}

// Keyboard fans key events out to the listeners of the active view.
type Keyboard struct {
	mu        sync.Mutex
	next      int
	listeners []keyListener
}

type keyListener struct {
	id int
	fn func(*KeyEvent)
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Listen registers fn until the returned remove func is called.
func (k *Keyboard) Listen(fn func(*KeyEvent)) (remove func()) {
	k.mu.Lock()
	id := k.next
	k.next++
	k.listeners = append(k.listeners, keyListener{id: id, fn: fn})
	k.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			defer k.mu.Unlock()
			for idx, l := range k.listeners {
				if l.id == id {
					k.listeners = append(k.listeners[:idx], k.listeners[idx+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch delivers ev to every listener in registration order and reports
// whether the host should still apply its default action.
func (k *Keyboard) Dispatch(ev *KeyEvent) bool {
	k.mu.Lock()
	listeners := make([]keyListener, len(k.listeners))
	copy(listeners, k.listeners)
	k.mu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
	return !ev.prevented
}

func (k *Keyboard) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.listeners)
}
