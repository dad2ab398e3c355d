package content_test

import (
	"testing/fstest"
)

func md(frontMatter, body string) *fstest.MapFile {
	src := body
	if frontMatter != "" {
		src = "---\n" + frontMatter + "\n---\n" + body
	}
	return &fstest.MapFile{Data: []byte(src)}
}

// javaTree is the layout used throughout the query tests:
//
//	Java/intro.md              no order, no date
//	Java/basics/vars.md        order 1
//	Java/basics/loops.md       order 2
//	Java/tutorials/basics/a.md order 1
//	Java/tutorials/basics/b.md order 2
//	Java/tutorials/advanced/c.md order 1
//	Go/Guide.md                titled, dated
//	Go/hello-world.md          untitled, dated later
func javaTree() fstest.MapFS {
	return fstest.MapFS{
		"Java/intro.md":                md("", "# Intro\n"),
		"Java/basics/vars.md":          md("title: Variables\norder: 1\ndate: 2023-01-01", "vars body\n"),
		"Java/basics/loops.md":         md("title: Loops\norder: 2\ndate: 2024-06-01", "loops body\n"),
		"Java/tutorials/basics/a.md":   md("order: 1", "a\n"),
		"Java/tutorials/basics/b.md":   md("order: 2", "b\n"),
		"Java/tutorials/advanced/c.md": md("order: 1", "c\n"),
		"Go/Guide.md":                  md(`title: "My Guide"`+"\ndate: 2024-01-10\ndescription: Getting started", "guide\n"),
		"Go/hello-world.md":            md("date: 2024-02-01", "hello\n"),
		"README.md":                    md("", "root files are not categories\n"),
	}
}
