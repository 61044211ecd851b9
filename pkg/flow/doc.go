// Package flow reads draw flow definitions from YAML documents.
//
// A definition lists the steps in draw order plus the lookup tables used by
// dynamic steps:
//
//	name: phone
//	tables:
//	  brand_codes:
//	    Asus: asus
//	    Xiaomi: mi
//	steps:
//	  - key: Brand
//	    path: brands.txt
//	  - key: Series
//	    depends_on: Brand
//	    table: brand_codes
//	    template:
//	      prefix: series_
//
// The decoded flow is always validated before it is returned.
package flow
