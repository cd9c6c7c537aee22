package nasc

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"
)

// recorder collects hook calls. Test components receive it through a slot.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Clock is satisfied by assignability lookups.
type Clock interface {
	Now() int
}

type fixedClock struct{}

func (c *fixedClock) Now() int { return 42 }

type otherClock struct{}

func (c *otherClock) Now() int { return 7 }

type repository struct {
	Clock Clock `inject:""`
}

type service struct {
	Repo  *repository `inject:""`
	Audit Auditor     `inject:"optional"`
	Name  string
}

// Auditor has no implementation in tests.
type Auditor interface {
	Audit(entry string)
}

type selfAware struct {
	Self *selfAware `inject:""`
}

type settings struct {
	Name string
}

// compA, compB and compC form the ordering scenario: C's post-construct
// depends on B.
type compA struct {
	Rec *recorder `inject:""`
}

func (a *compA) PostConstruct() { a.Rec.record("A") }

type compB struct {
	Rec *recorder `inject:""`
	A   *compA    `inject:""`
}

func (b *compB) PostConstruct() { b.Rec.record("B") }

type compC struct {
	Rec *recorder `inject:""`
	B   *compB    `inject:""`
}

func (c *compC) PostConstruct() { c.Rec.record("C") }

func (c *compC) PostConstructDependsOn() []reflect.Type {
	return []reflect.Type{TypeOf[*compB]()}
}

// cycA and cycB declare each other as post-construct dependencies.
type cycA struct {
	Rec *recorder `inject:""`
}

func (a *cycA) PostConstruct() { a.Rec.record("cycA") }

func (a *cycA) PostConstructDependsOn() []reflect.Type {
	return []reflect.Type{TypeOf[*cycB]()}
}

type cycB struct {
	Rec *recorder `inject:""`
}

func (b *cycB) PostConstruct() { b.Rec.record("cycB") }

func (b *cycB) PostConstructDependsOn() []reflect.Type {
	return []reflect.Type{TypeOf[*cycA]()}
}

// step1 to step4 run in registration order; step3 fails.
type step1 struct {
	Rec *recorder `inject:""`
}

func (s *step1) PostConstruct() { s.Rec.record("step1") }
func (s *step1) PreDestroy()    { s.Rec.record("step1") }

type step2 struct {
	Rec *recorder `inject:""`
}

func (s *step2) PostConstruct() { s.Rec.record("step2") }
func (s *step2) PreDestroy()    { s.Rec.record("step2") }

var errStep3 = errors.New("step3 failed")

type step3 struct {
	Rec *recorder `inject:""`
}

func (s *step3) PostConstruct() error {
	s.Rec.record("step3")
	return errStep3
}

func (s *step3) PreDestroy() error {
	s.Rec.record("step3")
	return errStep3
}

type step4 struct {
	Rec *recorder `inject:""`
}

func (s *step4) PostConstruct() { s.Rec.record("step4") }
func (s *step4) PreDestroy()    { s.Rec.record("step4") }

// Greeter is the intercepted interface in aspect tests.
type Greeter interface {
	Greet(name string) string
}

type greeter struct {
	Rec *recorder `inject:"optional"`
}

func (g *greeter) Greet(name string) string { return "hello " + name }

type greeterProxy struct {
	target  Greeter
	handler AspectHandler
}

func (p *greeterProxy) Greet(name string) string {
	out := Intercept(p.handler, p.target, "Greet", []any{name}, func() []any {
		return []any{p.target.Greet(name)}
	})
	return out[0].(string)
}

func newGreeterProxy(target *greeter, handler AspectHandler) any {
	return &greeterProxy{target: target, handler: handler}
}

type greeterClient struct {
	Greeter Greeter `inject:""`
}

// upperAspect upper-cases greetings.
type upperAspect struct{}

func (h *upperAspect) WantsToIntercept(typ reflect.Type) bool {
	return typ == TypeOf[*greeter]()
}

func (h *upperAspect) Invoke(inv Invocation, proceed func() []any) []any {
	out := proceed()
	return []any{strings.ToUpper(out[0].(string))}
}

// exclaimAspect would also intercept greeters.
type exclaimAspect struct{}

func (h *exclaimAspect) WantsToIntercept(typ reflect.Type) bool {
	return typ == TypeOf[*greeter]()
}

func (h *exclaimAspect) Invoke(inv Invocation, proceed func() []any) []any {
	out := proceed()
	return []any{out[0].(string) + "!"}
}

// greedyAspect wants everything and remembers what it was offered. It
// injects itself to check self slots on handlers.
type greedyAspect struct {
	Self    *greedyAspect `inject:""`
	offered []reflect.Type
}

func (h *greedyAspect) WantsToIntercept(typ reflect.Type) bool {
	h.offered = append(h.offered, typ)
	return true
}

func (h *greedyAspect) Invoke(inv Invocation, proceed func() []any) []any {
	return proceed()
}

type panickyAspect struct{}

func (h *panickyAspect) WantsToIntercept(reflect.Type) bool { panic("no decision") }

func (h *panickyAspect) Invoke(inv Invocation, proceed func() []any) []any { return proceed() }

// recordingObserver keeps every notification.
type recordingObserver struct {
	built   []*Component
	advised map[reflect.Type]reflect.Type
	hooks   []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{advised: make(map[reflect.Type]reflect.Type)}
}

func (o *recordingObserver) ComponentBuilt(c *Component) { o.built = append(o.built, c) }

func (o *recordingObserver) ComponentAdvised(c *Component, handler *Component) {
	o.advised[c.Type()] = handler.Type()
}

func (o *recordingObserver) HookExecuted(phase Phase, c *Component, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.hooks = append(o.hooks, phase.String()+":"+c.Type().String()+":"+status)
}

func typesOf(components []*Component) []reflect.Type {
	types := make([]reflect.Type, len(components))
	for i, c := range components {
		types[i] = c.Type()
	}
	return types
}

func typeList(ts ...reflect.Type) []reflect.Type { return ts }
