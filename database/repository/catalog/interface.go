package catalogRepo

import (
	"context"
	"errors"

	"mauryaelectronics/database"
	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound means the referenced catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogRepository exposes the slice of the shared service/technician catalog
// the complaint core needs: reference validation, default pricing, and the one
// write-back performed by the apply-to-service policy.
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	GetTechnicianByID(ctx context.Context, id string) (*models.Technician, error)
	// SetTechnicianPrice overwrites the service's default technician price.
	SetTechnicianPrice(ctx context.Context, serviceID string, price float64) error
}

type mongoCatalogRepo struct {
	serviceColl    *mongo.Collection
	technicianColl *mongo.Collection
}

// NewMongoCatalogRepo returns a new CatalogRepository instance using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		serviceColl:    db.Collection("services"),
		technicianColl: db.Collection("technicians"),
	}
}
