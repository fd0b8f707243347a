// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"strings"

	"github.com/masonworks/mason/internal/core/models"
)

var supportedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// APIRoute renders a route handler module for a create_api step. Handler
// bodies are generated only for the requested subset of methods; every
// handler returns either the payload or an error envelope with status
// 400 (validation), 404 (missing record), or 500 (fault).
func APIRoute(d *models.APIDetails) (string, error) {
	if len(d.Methods) == 0 {
		return "", fmt.Errorf("create_api step requested no methods")
	}

	table := Identifier(d.TableName)
	if d.TableName == "" {
		table = Identifier(d.Endpoint)
	}

	seen := map[string]bool{}
	var methods []string
	for _, m := range d.Methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !supportedMethods[m] {
			return "", fmt.Errorf("unsupported method %q for endpoint %s", m, d.Endpoint)
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}

	var b strings.Builder
	b.WriteString("import { NextRequest, NextResponse } from \"next/server\";\n")
	b.WriteString("import { eq } from \"drizzle-orm\";\n")
	b.WriteString("import { db } from \"@/lib/db\";\n")
	fmt.Fprintf(&b, "import { %s } from \"@/schemas/%s\";\n", table, table)

	for _, m := range methods {
		b.WriteString("\n")
		switch m {
		case "GET":
			writeGetHandler(&b, table)
		case "POST":
			writePostHandler(&b, table)
		case "PUT":
			writePutHandler(&b, table)
		case "DELETE":
			writeDeleteHandler(&b, table)
		}
	}

	return b.String(), nil
}

func writeGetHandler(b *strings.Builder, table string) {
	fmt.Fprintf(b, `export async function GET(request: NextRequest) {
  try {
    const id = request.nextUrl.searchParams.get("id");
    if (id) {
      const found = await db.select().from(%[1]s).where(eq(%[1]s.id, Number(id)));
      if (found.length === 0) {
        return NextResponse.json({ error: "%[1]s record not found" }, { status: 404 });
      }
      return NextResponse.json(found[0]);
    }
    const rows = await db.select().from(%[1]s);
    return NextResponse.json(rows);
  } catch (err) {
    return NextResponse.json({ error: "internal server error" }, { status: 500 });
  }
}
`, table)
}

func writePostHandler(b *strings.Builder, table string) {
	fmt.Fprintf(b, `export async function POST(request: NextRequest) {
  try {
    const body = await request.json();
    if (!body || typeof body !== "object" || Array.isArray(body)) {
      return NextResponse.json({ error: "invalid request body" }, { status: 400 });
    }
    const inserted = await db.insert(%[1]s).values(body).returning();
    return NextResponse.json(inserted[0], { status: 201 });
  } catch (err) {
    return NextResponse.json({ error: "internal server error" }, { status: 500 });
  }
}
`, table)
}

func writePutHandler(b *strings.Builder, table string) {
	fmt.Fprintf(b, `export async function PUT(request: NextRequest) {
  try {
    const id = request.nextUrl.searchParams.get("id");
    if (!id) {
      return NextResponse.json({ error: "id is required" }, { status: 400 });
    }
    const body = await request.json();
    if (!body || typeof body !== "object" || Array.isArray(body)) {
      return NextResponse.json({ error: "invalid request body" }, { status: 400 });
    }
    const updated = await db.update(%[1]s).set(body).where(eq(%[1]s.id, Number(id))).returning();
    if (updated.length === 0) {
      return NextResponse.json({ error: "%[1]s record not found" }, { status: 404 });
    }
    return NextResponse.json(updated[0]);
  } catch (err) {
    return NextResponse.json({ error: "internal server error" }, { status: 500 });
  }
}
`, table)
}

func writeDeleteHandler(b *strings.Builder, table string) {
	fmt.Fprintf(b, `export async function DELETE(request: NextRequest) {
  try {
    const id = request.nextUrl.searchParams.get("id");
    if (!id) {
      return NextResponse.json({ error: "id is required" }, { status: 400 });
    }
    const deleted = await db.delete(%[1]s).where(eq(%[1]s.id, Number(id))).returning();
    if (deleted.length === 0) {
      return NextResponse.json({ error: "%[1]s record not found" }, { status: 404 });
    }
    return NextResponse.json(deleted[0]);
  } catch (err) {
    return NextResponse.json({ error: "internal server error" }, { status: 500 });
  }
}
`, table)
}
