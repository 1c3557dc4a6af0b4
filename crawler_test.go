package repocrawl_test

import (
	"testing"

	"github.com/fwojciec/repocrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := func() repocrawl.CrawlRequest {
		return repocrawl.CrawlRequest{
			Keywords: []string{"test", "example"},
			Proxies:  []string{"http://proxy1", "http://proxy2"},
			Mode:     repocrawl.ModeRepositories,
		}
	}

	t.Run("accepts valid request", func(t *testing.T) {
		t.Parallel()

		req := valid()
		require.NoError(t, req.Validate(repocrawl.DefaultModes()))
	})

	t.Run("accepts every default mode regardless of case", func(t *testing.T) {
		t.Parallel()

		for _, mode := range []repocrawl.Mode{"Repositories", "Issues", "Wikis", "wikis"} {
			req := valid()
			req.Mode = mode
			assert.NoError(t, req.Validate(repocrawl.DefaultModes()), "mode %q", mode)
		}
	})

	t.Run("rejects empty keywords", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Keywords = nil
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "keywords cannot be empty", repocrawl.ErrorMessage(err))
	})

	t.Run("rejects empty keyword", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Keywords = []string{"test", ""}
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "keyword cannot be empty", repocrawl.ErrorMessage(err))
	})

	t.Run("rejects empty proxies", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Proxies = []string{}
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "proxies cannot be empty", repocrawl.ErrorMessage(err))
	})

	t.Run("rejects empty proxy", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Proxies = []string{"http://proxy1", ""}
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "proxy cannot be empty", repocrawl.ErrorMessage(err))
	})

	t.Run("rejects empty type", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Mode = ""
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "type cannot be empty", repocrawl.ErrorMessage(err))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Mode = "InvalidType"
		err := req.Validate(repocrawl.DefaultModes())

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
		assert.Equal(t, "Unknown type: InvalidType", repocrawl.ErrorMessage(err))
	})

	t.Run("honours configured modes", func(t *testing.T) {
		t.Parallel()

		req := valid()
		req.Mode = "code"

		require.NoError(t, req.Validate([]repocrawl.Mode{"code"}))
		require.Error(t, req.Validate(repocrawl.DefaultModes()))
	})
}
