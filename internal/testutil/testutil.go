package testutil

import (
	"database/sql"
	"embed"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/catalog"
	"github.com/bencao/herbquiz/internal/models"
)

//go:embed migrations/*.sql
var testMigrationsFS embed.FS

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	migrations := []string{
		"migrations/0001_init.sql",
	}

	for _, migration := range migrations {
		sqlBytes, err := testMigrationsFS.ReadFile(migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SampleHerbs returns a small catalog covering two grades, two categories,
// and records with and without optional fields.
func SampleHerbs() []models.HerbRecord {
	return []models.HerbRecord{
		{
			ID: 1, ChineseName: "人參", LatinName: "Ginseng Radix", Family: "Araliaceae",
			Grade: "二年級", UsedPart: "root", Chemistry: "ginsenosides",
			Effects:  []string{"補氣", "生津"},
			ChemMain: "配醣體", ChemSub: "皂素配醣體",
			Origin: "Panax ginseng",
		},
		{
			ID: 2, ChineseName: "黃連", LatinName: "Coptidis Rhizoma", Family: "Ranunculaceae",
			Grade: "二年級", UsedPart: "rhizome", Chemistry: "berberine",
			Effects:  []string{"清熱", "燥濕"},
			ChemMain: "生物鹼", ChemSub: "異喹啉類",
			Origin: "Coptis chinensis",
		},
		{
			ID: 3, ChineseName: "甘草", LatinName: "Glycyrrhizae Radix", Family: "Leguminosae",
			Grade: "三年級", UsedPart: "root", Chemistry: "glycyrrhizin",
			Effects:  []string{"補脾益氣"},
			ChemMain: "配醣體", ChemSub: "皂素配醣體",
			Origin: "Glycyrrhiza uralensis",
		},
		{
			ID: 4, ChineseName: "麻黃", LatinName: "Ephedrae Herba", Family: "Ephedraceae",
			Grade: "三年級", UsedPart: "stem", Chemistry: "ephedrine",
			Effects:  []string{"發汗", "平喘"},
			ChemMain: "生物鹼", ChemSub: "生物鹼胺",
			Origin: "Ephedra sinica",
		},
		{
			// No optional fields at all: exercises the sentinel path.
			ID: 5, ChineseName: "測試草", LatinName: "Testum Herba", Family: "Testaceae",
			Grade: "三年級", UsedPart: "leaf",
			Effects: []string{"測試"},
		},
	}
}

// SampleCategories returns a taxonomy matching SampleHerbs.
func SampleCategories() map[string]models.CategoryNode {
	return map[string]models.CategoryNode{
		"配醣體": {
			NameLocal:   "配醣體",
			NameForeign: "Glycoside",
			Intro:       "糖與非糖部分結合的化合物。",
			SubCategories: []models.SubCategory{
				{Local: "強心配醣體", Foreign: "Cardiac Glycosides"},
				{Local: "皂素配醣體", Foreign: "Saponin Glycosides"},
			},
		},
		"生物鹼": {
			NameLocal:   "生物鹼",
			NameForeign: "Alkaloid",
			Intro:       "含氮的鹼性天然產物。",
			SubCategories: []models.SubCategory{
				{Local: "異喹啉類", Foreign: "Isoquinoline alkaloid"},
				{Local: "生物鹼胺", Foreign: "Alkaloidal amine"},
			},
		},
	}
}

// NewTestStore builds a catalog store over the sample data.
func NewTestStore(t *testing.T) *catalog.Store {
	store, err := catalog.New(SampleHerbs(), SampleCategories())
	require.NoError(t, err)
	return store
}
