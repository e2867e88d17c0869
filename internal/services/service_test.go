package services

import (
	"context"
	"testing"

	"semecity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		svcName string
		slug    string
		wantErr bool
	}{
		{name: "valid", svcName: "Career Center", slug: "career-center"},
		{name: "slug is lowercased", svcName: "Incubation", slug: "Incubation"},
		{name: "empty name", svcName: "  ", slug: "career-center", wantErr: true},
		{name: "empty slug", svcName: "Career Center", slug: "", wantErr: true},
		{name: "slug with spaces", svcName: "Career Center", slug: "career center", wantErr: true},
		{name: "slug with leading dash", svcName: "Career Center", slug: "-career", wantErr: true},
		{name: "slug with accents", svcName: "Pépinière", slug: "pépinière", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewServiceService(newFakeServiceRepo())
			created, err := svc.Create(ctx, tt.svcName, tt.slug, "")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
		})
	}

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		repo := newFakeServiceRepo()
		repo.add(&domain.Service{ID: "s1", Slug: "career-center"})
		svc := NewServiceService(repo)
		_, err := svc.Create(ctx, "Career Center", "career-center", "")
		require.ErrorIs(t, err, domain.ErrDuplicateService)
	})
}

func TestServiceService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newFakeServiceRepo()
	repo.add(&domain.Service{ID: "s1", Name: "Career Center", Slug: "career-center"})
	svc := NewServiceService(repo)

	t.Run("invalid slug rejected", func(t *testing.T) {
		bad := "not a slug"
		_, err := svc.Update(ctx, "s1", domain.ServiceUpdate{Slug: &bad})
		require.Error(t, err)
	})

	t.Run("unknown service", func(t *testing.T) {
		name := "Renamed"
		_, err := svc.Update(ctx, "missing", domain.ServiceUpdate{Name: &name})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("partial update", func(t *testing.T) {
		name := "Centre de carrière"
		updated, err := svc.Update(ctx, "s1", domain.ServiceUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Centre de carrière", updated.Name)
		assert.Equal(t, "career-center", updated.Slug)
	})
}

func TestServiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown service", func(t *testing.T) {
		svc := NewServiceService(newFakeServiceRepo())
		err := svc.Delete(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-empty service refused", func(t *testing.T) {
		repo := newFakeServiceRepo()
		repo.add(&domain.Service{ID: "s1", Slug: "career-center"})
		repo.deleteErr = domain.ErrServiceNotEmpty
		svc := NewServiceService(repo)
		err := svc.Delete(ctx, "s1")
		require.ErrorIs(t, err, domain.ErrServiceNotEmpty)
	})

	t.Run("empty service deleted", func(t *testing.T) {
		repo := newFakeServiceRepo()
		repo.add(&domain.Service{ID: "s1", Slug: "career-center"})
		svc := NewServiceService(repo)
		require.NoError(t, svc.Delete(ctx, "s1"))
	})
}
