package domain

import "time"

// CatalogTable names one of the admin-managed reference tables.
type CatalogTable string

const (
	CatalogDepartments     CatalogTable = "departments"
	CatalogProducts        CatalogTable = "products"
	CatalogCategories      CatalogTable = "categories"
	CatalogCompanies       CatalogTable = "companies"
	CatalogCompanyContacts CatalogTable = "company_contacts"
)

// CatalogItem is a row of a simple reference table (department, product,
// category or company).
type CatalogItem struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// CompanyContact is a reference-table row carrying contact details in
// addition to the common catalog fields.
type CompanyContact struct {
	ID        string
	CompanyID *string
	Name      string
	Email     string
	Phone     *string
	CreatedAt time.Time
}
