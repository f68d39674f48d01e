// Package profile handles employee profile submissions, support requests
// and their dashboard statistics.
package profile

// Selectable values of the profile form.
var (
	DepartmentOptions = []string{"Khoa Nội", "Khoa Ngoại", "Khoa Sản", "Khoa Nhi", "Trung tâm Xét nghiệm", "Phòng Hành chính"}
	TitleOptions      = []string{"Bác sĩ", "Điều dưỡng", "Kỹ thuật viên", "Dược sĩ", "Nhân viên Hành chính", "Lãnh đạo khoa"}
	StatusOptions     = []string{"Hoàn tất", "1 phần", "Chưa bắt đầu"}
)

// Options groups the option lists for the API.
type Options struct {
	Departments []string `json:"departments"`
	Titles      []string `json:"titles"`
	Statuses    []string `json:"statuses"`
}

// AllOptions returns copies of the option lists.
func AllOptions() Options {
	return Options{
		Departments: append([]string(nil), DepartmentOptions...),
		Titles:      append([]string(nil), TitleOptions...),
		Statuses:    append([]string(nil), StatusOptions...),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
