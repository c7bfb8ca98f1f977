package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/pkg/helpers"
)

// studentInserts builds the three multi-row INSERTs that create students: one
// each for student_accounts, student_details and sections, in that order.
func studentInserts(sb squirrel.StatementBuilderType, students []models.NewStudent) []squirrel.InsertBuilder {
	accounts := sb.Insert("student_accounts").
		Columns("student_id", "password_hash", "status")
	details := sb.Insert("student_details").
		Columns("student_id", "last_name", "first_name", "middle_name", "suffix",
			"email", "phone_number", "gender", "status")
	sections := sb.Insert("sections").
		Columns("student_id", "course", "year_level", "section", "instructor_id", "track")

	for _, s := range students {
		accounts = accounts.Values(s.StudentID, s.PasswordHash, models.StudentActive)
		details = details.Values(s.StudentID, s.LastName, s.FirstName, s.MiddleName, s.Suffix,
			s.Email, s.PhoneNumber, s.Gender, models.StudentActive)
		sections = sections.Values(s.StudentID, s.Course, s.YearLevel, s.Section, s.InstructorID, s.Track)
	}

	return []squirrel.InsertBuilder{accounts, details, sections}
}

// studentColumns is the projection scanned by scanStudent.
var studentColumns = []string{
	"sd.student_id", "sd.last_name", "sd.first_name", "sd.middle_name", "sd.suffix",
	"sd.email", "sd.phone_number", "sd.gender", "sd.status", "sd.created_at", "sd.updated_at",
	"sa.status",
	"s.id", "s.course", "s.year_level", "s.section", "s.instructor_id", "s.track",
	"te.track_name",
}

// studentSelect joins details with the account, section and accepted enrollment.
func studentSelect(sb squirrel.StatementBuilderType, columns ...string) squirrel.SelectBuilder {
	return sb.Select(columns...).
		From("student_details sd").
		Join("student_accounts sa ON sa.student_id = sd.student_id").
		LeftJoin("sections s ON s.student_id = sd.student_id").
		LeftJoin("track_enrollments te ON te.student_id = sd.student_id AND te.status = 'accepted'")
}

// studentListWhere applies the archived and search filters of a listing.
func studentListWhere(q squirrel.SelectBuilder, filter models.StudentFilter) squirrel.SelectBuilder {
	status := models.StudentActive
	if filter.ShowArchived {
		status = models.StudentArchived
	}
	q = q.Where(squirrel.Eq{"sd.status": status})

	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"sd.student_id": pattern},
			squirrel.ILike{"sd.last_name": pattern},
			squirrel.ILike{"sd.first_name": pattern},
			squirrel.ILike{"sd.email": pattern},
			squirrel.Expr("(sd.first_name || ' ' || sd.last_name) ILIKE ?", pattern),
		})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var (
		st           models.Student
		sectionID    *int64
		course       *string
		yearLevel    *string
		sectionName  *string
		instructorID *string
		track        *string
	)

	err := row.Scan(
		&st.StudentID, &st.LastName, &st.FirstName, &st.MiddleName, &st.Suffix,
		&st.Email, &st.PhoneNumber, &st.Gender, &st.Status, &st.CreatedAt, &st.UpdatedAt,
		&st.AccountStatus,
		&sectionID, &course, &yearLevel, &sectionName, &instructorID, &track,
		&st.EnrolledTrack,
	)
	if err != nil {
		return nil, err
	}

	if sectionID != nil {
		st.Section = &models.Section{
			ID:           *sectionID,
			StudentID:    st.StudentID,
			Course:       helpers.StringValue(course),
			YearLevel:    helpers.StringValue(yearLevel),
			Section:      helpers.StringValue(sectionName),
			InstructorID: instructorID,
			Track:        track,
		}
	}
	return &st, nil
}

// studentUpdates splits a partial update into the SET clauses of each table.
func studentUpdates(u models.StudentUpdate) (details, section map[string]interface{}) {
	details = map[string]interface{}{}
	section = map[string]interface{}{}

	set := func(m map[string]interface{}, col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	setNullable := func(m map[string]interface{}, col string, v *string) {
		if v != nil {
			m[col] = helpers.NilIfEmpty(*v)
		}
	}

	set(details, "last_name", u.LastName)
	set(details, "first_name", u.FirstName)
	setNullable(details, "middle_name", u.MiddleName)
	setNullable(details, "suffix", u.Suffix)
	set(details, "email", u.Email)
	set(details, "phone_number", u.PhoneNumber)
	set(details, "gender", u.Gender)

	set(section, "course", u.Course)
	set(section, "year_level", u.YearLevel)
	set(section, "section", u.Section)
	setNullable(section, "instructor_id", u.InstructorID)
	setNullable(section, "track", u.Track)

	return details, section
}
