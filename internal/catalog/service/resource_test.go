package service

import (
	"context"
	"io"
	"testing"

	catalogerrors "fieldbook/internal/catalog/errors"
	"fieldbook/pkg/auth"
	"fieldbook/pkg/config"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockResourceRepository struct {
	createFunc  func(ctx context.Context, resource *model.Resource) error
	findByIDFun func(ctx context.Context, id string) (*model.Resource, error)
	findAllFunc func(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Resource, error)
	countFunc   func(ctx context.Context, activeOnly bool) (int64, error)
	updateFunc  func(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error)
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return m.createFunc(ctx, resource)
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	return m.findByIDFun(ctx, id)
}

func (m *mockResourceRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Resource, error) {
	return m.findAllFunc(ctx, activeOnly, limit, offset)
}

func (m *mockResourceRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return m.countFunc(ctx, activeOnly)
}

func (m *mockResourceRepository) Update(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
	return m.updateFunc(ctx, id, resource)
}

func newTestService(repo *mockResourceRepository) CatalogService {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewCatalogService(repo, auth.NewStaticProvider([]string{"ops"}), cfg)
}

func TestCreate_RequiresInventoryCapability(t *testing.T) {
	svc := newTestService(&mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			t.Fatal("repository should not be reached without the capability")
			return nil
		},
	})

	resource := &model.Resource{Name: "Zone A1", Kind: model.ResourceKindZone}
	err := svc.Create(context.Background(), "team-a", resource)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreate_ZoneForcedToZeroQuantity(t *testing.T) {
	var created *model.Resource
	svc := newTestService(&mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			created = resource
			return nil
		},
	})

	resource := &model.Resource{Name: "Zone A1", Kind: model.ResourceKindZone, TotalQuantity: 7}
	if err := svc.Create(context.Background(), "ops", resource); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created == nil {
		t.Fatal("repository was not called")
	}
	if created.TotalQuantity != 0 {
		t.Errorf("zone quantity should be forced to 0, got %d", created.TotalQuantity)
	}
	if !created.Active {
		t.Error("new resources should start active")
	}
}

func TestCreate_MaterialRequiresQuantity(t *testing.T) {
	svc := newTestService(&mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			return nil
		},
	})

	resource := &model.Resource{Name: "Rope", Kind: model.ResourceKindMaterial, TotalQuantity: 0}
	err := svc.Create(context.Background(), "ops", resource)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_NameNormalized(t *testing.T) {
	var created *model.Resource
	svc := newTestService(&mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			created = resource
			return nil
		},
	})

	resource := &model.Resource{Name: "  Zone   A1  ", Kind: model.ResourceKindZone}
	if err := svc.Create(context.Background(), "ops", resource); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Zone A1" {
		t.Errorf("expected normalized name, got %q", created.Name)
	}
}

func TestGetByID_NotFoundMapped(t *testing.T) {
	svc := newTestService(&mockResourceRepository{
		findByIDFun: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, catalogerrors.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), "64f1b2c3d4e5f6a7b8c9d0e1")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetAll_ReturnsListAndTotal(t *testing.T) {
	svc := newTestService(&mockResourceRepository{
		findAllFunc: func(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Resource, error) {
			return []*model.Resource{
				{ID: "1", Name: "Rope", Kind: model.ResourceKindMaterial, TotalQuantity: 5},
			}, nil
		},
		countFunc: func(ctx context.Context, activeOnly bool) (int64, error) {
			return 12, nil
		},
	})

	resources, total, err := svc.GetAll(context.Background(), true, 10, 0)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(resources) != 1 || total != 12 {
		t.Errorf("expected 1 resource of 12 total, got %d of %d", len(resources), total)
	}
}

func TestUpdate_DeactivationAllowed(t *testing.T) {
	existing := &model.Resource{
		ID: "64f1b2c3d4e5f6a7b8c9d0e1", Name: "Rope", Kind: model.ResourceKindMaterial,
		TotalQuantity: 5, Active: true,
	}
	var saved *model.Resource
	svc := newTestService(&mockResourceRepository{
		findByIDFun: func(ctx context.Context, id string) (*model.Resource, error) {
			clone := *existing
			return &clone, nil
		},
		updateFunc: func(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
			saved = resource
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	})

	active := false
	err := svc.Update(context.Background(), "ops", existing.ID, &model.ResourceUpdate{Active: &active})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if saved == nil || saved.Active {
		t.Error("resource should be inactive after update")
	}
	if saved.TotalQuantity != 5 {
		t.Errorf("untouched fields must survive the merge, got quantity %d", saved.TotalQuantity)
	}
}
