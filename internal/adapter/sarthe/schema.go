package sarthe

import "github.com/sutter-pierre/dialog-integrations/internal/frame"

// rawDataSchema declares the columns used from the Sarthe speed-limit CSV
// export. Everything arrives as text; validation coerces the numeric
// columns.
var rawDataSchema = frame.Schema{
	{Name: "infobulle", Type: frame.String, Nullable: true},
	{Name: "loc_txt", Type: frame.String, Nullable: true},
	{Name: "VITESSE", Type: frame.Int, Nullable: true},
	{Name: "longueur", Type: frame.Float, Nullable: true},
	{Name: "annee", Type: frame.Int, Nullable: true},
	{Name: "date_modif", Type: frame.String, Nullable: true},
	{Name: "geo_shape", Type: frame.String, Nullable: true},
}
