package memory

import (
	"testing"

	"github.com/MikeMC777/campus-eats/internal/store/storetest"
)

func TestRepositories(t *testing.T) {
	db := New()
	storetest.Run(t, storetest.Repos{
		Students: db.Students(),
		Stalls:   db.Stalls(),
		Orders:   db.Orders(),
		Reviews:  db.Reviews(),
	})
}
