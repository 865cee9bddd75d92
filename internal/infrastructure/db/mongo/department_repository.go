package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staffhub/employee-api/internal/core/domain"
)

const collectionDepartments = "departments"

type DepartmentRepository struct {
	col *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{col: db.Collection(collectionDepartments)}
}

type mongoDepartment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d mongoDepartment) toDomain() domain.Department {
	return domain.Department{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *domain.Department) (*domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoDepartment{
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert department: %w", err)
	}

	created := *d
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d mongoDepartment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("find department: %w", err)
	}

	dep := d.toDomain()
	return &dep, nil
}

func (r *DepartmentRepository) FindAll(ctx context.Context) ([]domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer cursor.Close(ctx)

	departments := make([]domain.Department, 0)
	for cursor.Next(ctx) {
		var d mongoDepartment
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode department: %w", err)
		}
		departments = append(departments, d.toDomain())
	}
	return departments, cursor.Err()
}

func (r *DepartmentRepository) Update(ctx context.Context, d *domain.Department) error {
	oid, err := primitive.ObjectIDFromHex(d.ID)
	if err != nil {
		return domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        d.Name,
		"description": d.Description,
		"updated_at":  d.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}
