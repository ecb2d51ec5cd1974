package service

import (
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
)

// roleBehavior is the role-specific part of the runtime, selected once at
// construction.
type roleBehavior interface {
	// Sleep handles a sleep window offered by the mesh engine.
	Sleep(maxSleep time.Duration)

	// Poll answers a power-manager sleep query.
	Poll(query sleep.Query) sleep.Answer

	// Scheduler returns the sleep scheduler, or nil if the role has none.
	Scheduler() *sleep.Scheduler

	// LogRole returns the role tag for log events.
	LogRole() log.Role
}

// lowPowerBehavior runs the Low Power Node sleep path.
type lowPowerBehavior struct {
	scheduler *sleep.Scheduler
}

func (b *lowPowerBehavior) Sleep(maxSleep time.Duration) {
	b.scheduler.Schedule(maxSleep)
}

func (b *lowPowerBehavior) Poll(query sleep.Query) sleep.Answer {
	return b.scheduler.Poll(query)
}

func (b *lowPowerBehavior) Scheduler() *sleep.Scheduler {
	return b.scheduler
}

func (b *lowPowerBehavior) LogRole() log.Role {
	return log.RoleLowPower
}

// friendBehavior runs the Friend node path. A Friend keeps its radio on for
// its Low Power Nodes and never sleeps, so sleep hooks answer accordingly.
type friendBehavior struct{}

func (friendBehavior) Sleep(maxSleep time.Duration) {}

func (friendBehavior) Poll(query sleep.Query) sleep.Answer {
	if query == sleep.QueryTimeToSleep {
		return sleep.AnswerNotAllowed
	}
	return sleep.AnswerNotSpecified
}

func (friendBehavior) Scheduler() *sleep.Scheduler {
	return nil
}

func (friendBehavior) LogRole() log.Role {
	return log.RoleFriend
}
