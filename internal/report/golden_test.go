package report

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mps7/internal/testutil"
)

// Regenerate with:
//
//	go test ./internal/report -run TestWriteTextGolden -update
func TestWriteTextGolden(t *testing.T) {
	s, err := Build(referenceLoad(t), testutil.UserOne)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "reference_user_one", buf.Bytes())
}
