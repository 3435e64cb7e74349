package models

// Category groups related fields of a CountyRecord.
type Category string

const (
	CategoryEducation   Category = "Education"
	CategoryEthnicities Category = "Ethnicities"
	CategoryIncome      Category = "Income"
	CategoryAge         Category = "Age"
	CategoryPopulation  Category = "Population"
)

const (
	LabelPopulation2014 = "2014 Population"

	LabelHighSchool = "Percent High School or Higher"
	LabelBachelors  = "Percent Bachelor's Degree or Higher"

	LabelBelowPoverty    = "Persons Below Poverty Level"
	LabelMedianHousehold = "Median Household Income"
	LabelPerCapita       = "Per Capita Income"
)

// Catalogue is the closed set of labels each category may carry.
// The loader drops columns outside it.
var Catalogue = map[Category][]string{
	CategoryEducation: {
		LabelHighSchool,
		LabelBachelors,
	},
	CategoryEthnicities: {
		"American Indian and Alaska Native Alone",
		"Asian Alone",
		"Black Alone",
		"Hispanic or Latino",
		"Native Hawaiian and Other Pacific Islander Alone",
		"Two or More Races",
		"White Alone",
		"White Alone, not Hispanic or Latino",
	},
	CategoryIncome: {
		LabelMedianHousehold,
		LabelPerCapita,
		LabelBelowPoverty,
	},
	CategoryAge: {
		"Percent 65 and Older",
		"Percent Under 18 Years",
		"Percent Under 5 Years",
	},
	CategoryPopulation: {
		LabelPopulation2014,
	},
}

// resolveOrder is the search order for labels given without a category.
var resolveOrder = []Category{CategoryEducation, CategoryEthnicities, CategoryIncome}

// Known reports whether label is catalogued under c.
func Known(c Category, label string) bool {
	for _, l := range Catalogue[c] {
		if l == label {
			return true
		}
	}
	return false
}

// Resolve finds the category of a bare label. Only Education,
// Ethnicities and Income take part.
func Resolve(label string) (Category, bool) {
	for _, c := range resolveOrder {
		if Known(c, label) {
			return c, true
		}
	}
	return "", false
}

// Field names one value of a record as written in a directive, e.g.
// "Education.Percent High School or Higher". Category is empty for a bare
// label.
type Field struct {
	Category Category
	Label    string
	Raw      string
}

func (f Field) String() string {
	return f.Raw
}
