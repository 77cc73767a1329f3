package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
)

func TestInsertAndFind(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()

	res, err := repo.Insert(ctx, models.Document{"name": "Ada", "email": "ada@example.com", "age": json.Number("36")})
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if !res.Acknowledged || len(res.InsertedID) != 24 {
		t.Fatalf("Insert() result = %+v", res)
	}

	doc, err := repo.FindByID(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("FindByID() unexpected error: %v", err)
	}
	if doc.ID() != res.InsertedID || doc["name"] != "Ada" || doc["age"] != json.Number("36") {
		t.Errorf("FindByID() = %v", doc)
	}

	byEmail, err := repo.FindOneByField(ctx, "email", "ada@example.com")
	if err != nil || byEmail.ID() != res.InsertedID {
		t.Errorf("FindOneByField() = %v, %v", byEmail, err)
	}

	if _, err := repo.FindOneByField(ctx, "email", "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindOneByField() missing error = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByID(ctx, "000000000000000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID() missing error = %v, want ErrNotFound", err)
	}
}

func TestInsertIgnoresClientID(t *testing.T) {
	repo := NewDocumentRepository()
	res, err := repo.Insert(context.Background(), models.Document{"_id": "mine", "a": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if res.InsertedID == "mine" {
		t.Error("Insert() kept a client-supplied _id")
	}
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	res, _ := repo.Insert(ctx, models.Document{"name": "Ada"})

	doc, _ := repo.FindByID(ctx, res.InsertedID)
	doc["name"] = "mutated"

	again, _ := repo.FindByID(ctx, res.InsertedID)
	if again["name"] != "Ada" {
		t.Errorf("store was mutated through a returned document: %v", again)
	}
}

func TestFindAllKeepsInsertionOrder(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		res, _ := repo.Insert(ctx, models.Document{"name": name})
		ids = append(ids, res.InsertedID)
	}

	docs, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("FindAll() returned %d docs", len(docs))
	}
	for i, doc := range docs {
		if doc.ID() != ids[i] {
			t.Errorf("docs[%d] id = %s, want %s", i, doc.ID(), ids[i])
		}
	}
}

func TestUpdateByID(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	res, _ := repo.Insert(ctx, models.Document{"name": "Ada", "role": "admin"})

	upd, err := repo.UpdateByID(ctx, res.InsertedID, models.Document{"role": "owner"})
	if err != nil {
		t.Fatal(err)
	}
	if upd.MatchedCount != 1 || upd.ModifiedCount != 1 {
		t.Errorf("UpdateByID() = %+v", upd)
	}

	// Same value again matches but does not modify
	upd, _ = repo.UpdateByID(ctx, res.InsertedID, models.Document{"role": "owner"})
	if upd.MatchedCount != 1 || upd.ModifiedCount != 0 {
		t.Errorf("no-op UpdateByID() = %+v", upd)
	}

	doc, _ := repo.FindByID(ctx, res.InsertedID)
	if doc["name"] != "Ada" || doc["role"] != "owner" {
		t.Errorf("after update = %v", doc)
	}

	missing, err := repo.UpdateByID(ctx, "000000000000000000000000", models.Document{"role": "x"})
	if err != nil || missing.MatchedCount != 0 {
		t.Errorf("UpdateByID() on missing = %+v, %v", missing, err)
	}
}

func TestDeleteByID(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	res, _ := repo.Insert(ctx, models.Document{"name": "Ada"})

	del, err := repo.DeleteByID(ctx, res.InsertedID)
	if err != nil || del.DeletedCount != 1 {
		t.Fatalf("DeleteByID() = %+v, %v", del, err)
	}
	if repo.Len() != 0 {
		t.Errorf("Len() = %d after delete", repo.Len())
	}

	del, err = repo.DeleteByID(ctx, res.InsertedID)
	if err != nil || del.DeletedCount != 0 {
		t.Errorf("second DeleteByID() = %+v, %v", del, err)
	}
}
