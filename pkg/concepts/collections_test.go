package concepts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/skosmos"
	"github.com/base-angewandte/baseauth/pkg/skosmos/skosmostest"
)

const oefos = "http://base.uni-ak.ac.at/portfolio/disciplines/oefos"

func seedExpertise(srv *skosmostest.Server) {
	srv.AddGraph("", concepts.BaseKeywordsCollection.URI,
		skosmostest.Concept("http://base.uni-ak.ac.at/recherche/keywords/k1", "en", "Ceramics"))
	srv.AddGraph("", oefos,
		skosmostest.Concept(oefos+"/1", "en", "Natural Sciences"),
		skosmostest.Concept(oefos+"/101", "en", "Mathematics"),
	)
	srv.AddChildren(oefos+"/1",
		skosmos.ChildConcept{URI: oefos + "/10", PrefLabels: map[string]string{"en": "Sciences group"}},
		skosmos.ChildConcept{URI: oefos + "/101001", PrefLabels: map[string]string{"en": "Algebra"}},
	)
	srv.AddGraph("", concepts.RolesCollection.URI,
		skosmostest.Concept("http://base.uni-ak.ac.at/portfolio/vocabulary/author", "en", "Author"))
}

func TestDisciplinesFilter(t *testing.T) {
	srv, store, f := setup(t)
	seedExpertise(srv)

	got := f.Disciplines(context.Background())
	assert.ElementsMatch(t, []string{oefos + "/101", oefos + "/101001"}, sources(got))
	for _, r := range got {
		assert.Equal(t, "voc", r.SourceName)
	}
	assert.True(t, store.Has("get_disciplines"))
}

func TestSkillsExpertiseScenario(t *testing.T) {
	srv, _, f := setup(t)
	seedExpertise(srv)
	ctx := context.Background()

	skills := f.Skills(ctx)
	require.Len(t, skills, 4)
	assert.Equal(t, "base", skills[0].SourceName)
	assert.Equal(t, "roles", skills[len(skills)-1].SourceName)
	assert.Equal(t, 3, srv.Calls("data"))
	cold := srv.TotalCalls()

	again := f.Skills(ctx)
	assert.Equal(t, skills, again)
	assert.Equal(t, cold, srv.TotalCalls())
}

func TestRegistry(t *testing.T) {
	_, _, f := setup(t)
	reg := f.Registry()

	assert.Equal(t, []string{"base_keywords", "disciplines", "roles", "skills"}, reg.Names())
	_, ok := reg.Get("skills")
	assert.True(t, ok)
	_, ok = reg.Get("nope")
	assert.False(t, ok)
}
