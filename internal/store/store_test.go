package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prsolans/agreement-mapper/internal/config"
	"github.com/prsolans/agreement-mapper/internal/model"
)

func sampleReport(company string) *model.Report {
	return &model.Report{
		Meta: model.Meta{
			TemplateVersion: "2.0",
			CompanyName:     company,
			ResearchStatus:  "complete",
		},
		CompanyProfile: model.CompanyProfile{
			LegalName: company,
			Industry:  "Manufacturing",
		},
		PortfolioSummary: model.PortfolioSummary{
			TotalOpportunities: 3,
			TotalAnnualValue:   "$17.0M",
		},
	}
}

func TestNewDriverSelection(t *testing.T) {
	dir := t.TempDir()

	s, err := New(context.Background(), config.StoreConfig{Driver: "file", Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	require.NoError(t, s.Close())

	s, err = New(context.Background(), config.StoreConfig{Driver: "sqlite", Path: filepath.Join(dir, "reports.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(context.Background(), config.StoreConfig{Driver: "mongodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.True(t, s.IsConfigured())
	ctx := context.Background()

	id, err := s.Save(ctx, sampleReport("acme corp"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "acme corp", loaded.Meta.CompanyName)
	assert.Equal(t, "$17.0M", loaded.PortfolioSummary.TotalAnnualValue)

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, id, summaries[0].ID)
	assert.Equal(t, "Acme Corp", summaries[0].DisplayName)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Load(ctx, id)
	assert.Error(t, err)
}

func TestFileStoreDeleteMissing(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	err = s.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	assert.True(t, s.IsConfigured())
	defer s.Close()
	ctx := context.Background()

	first, err := s.Save(ctx, sampleReport("globex"))
	require.NoError(t, err)
	second, err := s.Save(ctx, sampleReport("initech"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	loaded, err := s.Load(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "initech", loaded.Meta.CompanyName)

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)

	require.NoError(t, s.Delete(ctx, first))
	summaries, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Initech", summaries[0].DisplayName)

	_, err = s.Load(ctx, first)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = s.Delete(ctx, first)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
