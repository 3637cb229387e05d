package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
)

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, listFilter(domainproject.NewListQuery("", "", "", "")))

	got := listFilter(domainproject.NewListQuery("", "", "c++ (v2)", ""))
	assert.Equal(t, bson.D{{Key: "title", Value: primitive.Regex{Pattern: `c\+\+ \(v2\)`, Options: "i"}}}, got)
}

func TestSortDoc(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "title", Value: -1}}, sortDoc(domainproject.Sort{Field: domainproject.SortTitle, Desc: true}))
	assert.Equal(t, bson.D{{Key: "techStack", Value: 1}}, sortDoc(domainproject.Sort{Field: domainproject.SortTechnologies}))
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sortDoc(domainproject.Sort{Field: domainproject.SortID}))
}

func TestDocumentToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	p := document{ID: id, Title: "t", TechStack: nil}.toDomain()
	assert.Equal(t, id, p.ID)
	assert.NotNil(t, p.Technologies)
}
