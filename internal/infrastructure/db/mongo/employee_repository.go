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
	"github.com/staffhub/employee-api/internal/core/ports"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	col  *mongo.Collection
	deps *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{
		col:  db.Collection(collectionEmployees),
		deps: db.Collection(collectionDepartments),
	}
}

type mongoEmployee struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	DepartmentID primitive.ObjectID `bson:"department_id"`
	JobRole      string             `bson:"job_role"`
	ProfilePhoto string             `bson:"profile_photo,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (e mongoEmployee) toDomain() domain.Employee {
	return domain.Employee{
		ID:           e.ID.Hex(),
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		DepartmentID: e.DepartmentID.Hex(),
		JobRole:      e.JobRole,
		ProfilePhoto: e.ProfilePhoto,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toMongoEmployee(e *domain.Employee) (mongoEmployee, error) {
	depID, err := primitive.ObjectIDFromHex(e.DepartmentID)
	if err != nil {
		return mongoEmployee{}, domain.NewValidationError("department does not exist")
	}
	return mongoEmployee{
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		DepartmentID: depID,
		JobRole:      e.JobRole,
		ProfilePhoto: e.ProfilePhoto,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc, err := toMongoEmployee(e)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}

	created := *e
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEmployeeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e mongoEmployee
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}

	emp := e.toDomain()
	return &emp, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return domain.ErrEmployeeNotFound
	}

	doc, err := toMongoEmployee(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEmployeeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// List returns one page of employees matching filter plus the total match
// count. The keyword filter is a case-insensitive substring match on the
// name; the department filter is an exact match on the foreign key. Results
// are ordered by _id so pages stay stable across requests.
func (r *EmployeeRepository) List(ctx context.Context, filter ports.EmployeeFilter, limit, offset int64) ([]ports.EmployeeRow, int64, error) {
	query := bson.M{}
	if filter.Keyword != "" {
		query["name"] = primitive.Regex{Pattern: filter.Keyword, Options: "i"}
	}
	if filter.DepartmentID != "" {
		depID, err := primitive.ObjectIDFromHex(filter.DepartmentID)
		if err != nil {
			// Unresolvable filter matches nothing.
			return []ports.EmployeeRow{}, 0, nil
		}
		query["department_id"] = depID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer cursor.Close(ctx)

	var page []mongoEmployee
	if err := cursor.All(ctx, &page); err != nil {
		return nil, 0, fmt.Errorf("decode employees: %w", err)
	}

	names, err := r.departmentNames(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]ports.EmployeeRow, 0, len(page))
	for _, e := range page {
		rows = append(rows, ports.EmployeeRow{
			Employee:       e.toDomain(),
			DepartmentName: names[e.DepartmentID],
		})
	}
	return rows, count, nil
}

// departmentNames resolves the department names for a page of employees in a
// single $in query.
func (r *EmployeeRepository) departmentNames(ctx context.Context, page []mongoEmployee) (map[primitive.ObjectID]string, error) {
	ids := make([]primitive.ObjectID, 0, len(page))
	seen := make(map[primitive.ObjectID]bool, len(page))
	for _, e := range page {
		if !seen[e.DepartmentID] {
			seen[e.DepartmentID] = true
			ids = append(ids, e.DepartmentID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.deps.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("resolve department names: %w", err)
	}
	defer cursor.Close(ctx)

	names := make(map[primitive.ObjectID]string, len(ids))
	for cursor.Next(ctx) {
		var d mongoDepartment
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode department: %w", err)
		}
		names[d.ID] = d.Name
	}
	return names, cursor.Err()
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// Distribution groups employees by department and joins in the department
// name. The $unwind stage drops groups whose department no longer exists, so
// zero-employee departments never appear.
func (r *EmployeeRepository) Distribution(ctx context.Context) ([]ports.DistributionRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$department_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionDepartments},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "department"},
		}}},
		{{Key: "$unwind", Value: "$department"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: "$department.name"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate distribution: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Name  string             `bson:"name"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode distribution: %w", err)
	}

	rows := make([]ports.DistributionRow, 0, len(raw))
	for _, row := range raw {
		rows = append(rows, ports.DistributionRow{
			DepartmentID: row.ID.Hex(),
			Name:         row.Name,
			Count:        row.Count,
		})
	}
	return rows, nil
}

// EnsureIndexes creates the unique email index and the name index backing the
// keyword filter.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "department_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
