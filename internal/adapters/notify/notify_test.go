package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

func TestRing_DropsOldestAtCapacity(t *testing.T) {
	r := NewRing(3, nil)
	for i := 0; i < 5; i++ {
		r.Notify(ports.Notification{
			Kind:  ports.NotificationExpiringSoon,
			Title: fmt.Sprintf("n%d", i),
		})
	}

	recent := r.Recent(time.Time{})
	require.Len(t, recent, 3)
	assert.Equal(t, "n2", recent[0].Title)
	assert.Equal(t, "n4", recent[2].Title)
}

func TestRing_RecentFiltersBySince(t *testing.T) {
	r := NewRing(8, nil)
	base := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	stamp := base
	r.now = func() time.Time {
		stamp = stamp.Add(time.Minute)
		return stamp
	}

	r.Notify(ports.Notification{Title: "old"})
	r.Notify(ports.Notification{Title: "mid"})
	r.Notify(ports.Notification{Title: "new"})

	all := r.Recent(time.Time{})
	require.Len(t, all, 3)

	since := base.Add(90 * time.Second)
	recent := r.Recent(since)
	require.Len(t, recent, 2)
	assert.Equal(t, "mid", recent[0].Title)
	assert.Equal(t, "new", recent[1].Title)
}

func TestRing_DefaultCapacity(t *testing.T) {
	r := NewRing(0, nil)
	for i := 0; i < 40; i++ {
		r.Notify(ports.Notification{Title: fmt.Sprintf("n%d", i)})
	}
	assert.Len(t, r.Recent(time.Time{}), 32)
}
