package refresh_test

import (
	"testing"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	t.Run("notify delivers a signal", func(t *testing.T) {
		notifier := refresh.NewNotifier()

		notifier.Notify()

		select {
		case <-notifier.C():
		default:
			t.Fatal("expected a pending signal")
		}
	})

	t.Run("signals coalesce while undrained", func(t *testing.T) {
		notifier := refresh.NewNotifier()

		for i := 0; i < 100; i++ {
			notifier.Notify()
		}

		drained := 0
		for {
			select {
			case <-notifier.C():
				drained++
				continue
			default:
			}
			break
		}

		assert.Equal(t, 1, drained)
	})

	t.Run("notify never blocks", func(t *testing.T) {
		notifier := refresh.NewNotifier()

		done := make(chan struct{})
		go func() {
			notifier.Notify()
			notifier.Notify()
			notifier.Notify()
			close(done)
		}()

		<-done
	})
}
