package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollhub/internal/app/models"
)

func strPtr(s string) *string { return &s }

func TestStudentInsertsBuildsOneStatementPerTable(t *testing.T) {
	students := []models.NewStudent{
		{StudentID: "2021-0001", PasswordHash: "h", LastName: "Cruz", FirstName: "Ana", Email: "ana@x.edu",
			PhoneNumber: "09171234567", Gender: "Female", Course: "BSIT", YearLevel: "First Year", Section: "A"},
		{StudentID: "2021-0002", PasswordHash: "h", LastName: "Lim", FirstName: "Ben", Email: "ben@x.edu",
			PhoneNumber: "09171234568", Gender: "Male", Course: "BSIT", YearLevel: "First Year", Section: "B",
			Track: strPtr("Web")},
	}

	inserts := studentInserts(statementBuilder(), students)
	require.Len(t, inserts, 3)

	tables := []string{"student_accounts", "student_details", "sections"}
	perRow := []int{3, 9, 6}
	for i, insert := range inserts {
		sql, args, err := insert.ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "INSERT INTO "+tables[i])
		assert.Len(t, args, perRow[i]*len(students), tables[i])
		assert.Contains(t, sql, "$1")
		assert.NotContains(t, sql, "?")
		assert.Equal(t, "2021-0001", args[0])
		assert.Equal(t, "2021-0002", args[perRow[i]])
	}
}

func TestStudentListWhere(t *testing.T) {
	base := statementBuilder().Select("sd.student_id").From("student_details sd")

	t.Run("active only without search", func(t *testing.T) {
		sql, args, err := studentListWhere(base, models.StudentFilter{}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "sd.status = $1")
		assert.NotContains(t, sql, "ILIKE")
		assert.Equal(t, []interface{}{models.StudentActive}, args)
	})

	t.Run("archived with search", func(t *testing.T) {
		sql, args, err := studentListWhere(base, models.StudentFilter{Search: "an_a", ShowArchived: true}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "ILIKE")
		require.Len(t, args, 6)
		assert.Equal(t, models.StudentArchived, args[0])
		for _, a := range args[1:] {
			assert.Equal(t, `%an\_a%`, a)
		}
	})
}

func TestStudentUpdatesSplitsTables(t *testing.T) {
	details, section := studentUpdates(models.StudentUpdate{
		LastName:     strPtr("Reyes"),
		MiddleName:   strPtr(""),
		YearLevel:    strPtr("Second Year"),
		InstructorID: strPtr(""),
	})

	require.Len(t, details, 2)
	assert.Equal(t, "Reyes", details["last_name"])
	assert.Contains(t, details, "middle_name")
	assert.Nil(t, details["middle_name"])
	assert.Equal(t, "Second Year", section["year_level"])
	assert.Contains(t, section, "instructor_id")
	assert.Nil(t, section["instructor_id"])
	assert.Len(t, section, 2)
}

func TestStudentUpdatesEmpty(t *testing.T) {
	details, section := studentUpdates(models.StudentUpdate{})
	assert.Empty(t, details)
	assert.Empty(t, section)
}
