package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// System is a unit of per-tick behavior. Query and Singleton fields of a
// system struct are bound automatically by Scheduler.Register.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) { f(frame) }

// UpdateFrame is passed to every system during one tick.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type registeredSystem struct {
	system  System
	queries []executor
	stats   SystemStats
}

// Scheduler runs registered systems in registration order.
type Scheduler struct {
	storage  *Storage
	systems  []*registeredSystem
	commands Commands
}

func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register binds the system's Query and Singleton fields and appends it to the
// run order.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}

	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		queries: s.bind(system),
		stats:   SystemStats{Name: name, MinDuration: time.Duration(1<<63 - 1)},
	})
}

func (s *Scheduler) bind(system System) []executor {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []executor
	storage := reflect.ValueOf(s.storage)
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		name := field.Type().Name()
		if !strings.HasPrefix(name, "Query[") && !strings.HasPrefix(name, "Singleton[") {
			continue
		}
		init := field.Addr().MethodByName("Init")
		if !init.IsValid() {
			panic("ecs: Init not found on field " + v.Type().Field(i).Name)
		}
		init.Call([]reflect.Value{storage})
		if q, ok := field.Addr().Interface().(executor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once runs every system with dt, then flushes the queued commands.
func (s *Scheduler) Once(dt float64) {
	frame := &UpdateFrame{DeltaTime: dt, Commands: &s.commands, Storage: s.storage}
	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}

		start := time.Now()
		rs.system.Execute(frame)
		d := time.Since(start)

		st := &rs.stats
		st.ExecutionCount++
		st.LastDuration = d
		st.TotalDuration += d
		st.MinDuration = min(st.MinDuration, d)
		st.MaxDuration = max(st.MaxDuration, d)
	}
	s.commands.Flush(s.storage)
}

// Run ticks at interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		st := rs.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		} else {
			st.MinDuration = 0
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}

// Reset drops all systems and any unflushed commands.
func (s *Scheduler) Reset() {
	s.systems = nil
	s.commands = Commands{}
}
