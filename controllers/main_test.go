package controllers

import (
	"os"
	"testing"

	"github.com/kendall-kelly/reservations-api/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.GuardTestMain(m))
}
