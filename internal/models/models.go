package models

// table_name: categories
type Category struct {
	ID    int64  `po:"id,primaryKey,bigint,identityByDefault"`
	Name  string `po:"name,varchar(100),notNull"`
	Jokes []Joke `po:"-,hasMany,foreignKey(category_id),references(id)"`
}

// table_name: jokes
type Joke struct {
	ID         int64      `po:"id,primaryKey,bigint,identityByDefault"`
	Content    string     `po:"content,varchar(500),notNull"`
	CategoryID int64      `po:"category_id,bigint,notNull,index"`
	Category   *Category  `po:"-,belongsTo,foreignKey(category_id),references(id)"`
	Audiences  []Audience `po:"-,manyToMany,joinTable(audience_jokes),foreignKey(joke_id),references(id)"`
}

// table_name: audiences
type Audience struct {
	ID    int64  `po:"id,primaryKey,bigint,identityByDefault"`
	Name  string `po:"name,varchar(100),notNull"`
	Age   int    `po:"age,integer,notNull"`
	Jokes []Joke `po:"-,manyToMany,joinTable(audience_jokes),foreignKey(audience_id),references(id)"`
}

// AudienceJoke is one row of the joke/audience link table. Rows are
// created with a joke and removed when either side is deleted.
//
// table_name: audience_jokes
type AudienceJoke struct {
	AudienceID int64 `po:"audience_id,primaryKey,bigint"`
	JokeID     int64 `po:"joke_id,primaryKey,bigint,index"`
}
