package printing

// builtinTemplates holds the HTML behind every printed document, keyed
// by template name.
var builtinTemplates = map[string]string{
	"factura":  invoiceTemplate,
	"recibo":   receiptTemplate,
	"garantia": warrantyTemplate,
}

const documentStyles = `
  body { font-family: 'Segoe UI', Arial, sans-serif; color: #222; margin: 0; }
  .header { display: flex; justify-content: space-between; align-items: baseline; border-bottom: 2px solid #2b6cb0; padding-bottom: 12px; margin-bottom: 18px; }
  .header h1 { color: #2b6cb0; font-size: 1.5rem; margin: 0; }
  .header .numero { font-size: 1.1rem; font-weight: bold; }
  .datos { background: #f7fafc; border-radius: 8px; padding: 12px 16px; margin-bottom: 18px; font-size: 0.95rem; }
  .datos p { margin: 3px 0; }
  table.items { width: 100%; border-collapse: collapse; margin-bottom: 18px; }
  table.items th { background: #2b6cb0; color: #fff; text-align: left; padding: 8px 10px; font-size: 0.9rem; }
  table.items td { border-bottom: 1px solid #e0e0e0; padding: 7px 10px; font-size: 0.92rem; }
  table.items td.num { text-align: right; white-space: nowrap; }
  .totales { margin-left: auto; width: 260px; font-size: 0.95rem; }
  .totales .fila { display: flex; justify-content: space-between; padding: 4px 0; }
  .totales .total { border-top: 2px solid #2b6cb0; font-weight: bold; font-size: 1.1rem; padding-top: 6px; }
  .pie { margin-top: 32px; font-size: 0.8rem; color: #666; text-align: center; }
`

const invoiceTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Factura {{.Number}}</title>
<style>` + documentStyles + `</style>
</head>
<body>
  <div class="header">
    <h1>FACTURA</h1>
    <span class="numero">Nº {{.Number}}</span>
  </div>
  <div class="datos">
    <p><strong>Fecha:</strong> {{formatDate .Date}}</p>
    <p><strong>Cliente:</strong> {{.ClientName}}</p>
    {{if .ClientTaxID}}<p><strong>NIF/NIE:</strong> {{.ClientTaxID}}</p>{{end}}
    {{if .ClientAddress}}<p><strong>Dirección:</strong> {{.ClientAddress}}</p>{{end}}
    <p><strong>Teléfono:</strong> {{.ClientPhone}}</p>
    {{if .ClientEmail}}<p><strong>Email:</strong> {{.ClientEmail}}</p>{{end}}
    {{if .Vehicle}}<p><strong>Vehículo:</strong> {{.Vehicle}}{{if .Plate}} ({{.Plate}}){{end}}</p>{{end}}
  </div>
  <table class="items">
    <thead>
      <tr><th>Descripción</th><th>Cantidad</th><th>Precio unit.</th><th>Importe</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{euros .UnitPrice}}</td>
        <td class="num">{{euros .Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="totales">
    <div class="fila"><span>Base imponible</span><span>{{euros .Subtotal}}</span></div>
    <div class="fila"><span>IVA (21%)</span><span>{{euros .VAT}}</span></div>
    <div class="fila total"><span>Total</span><span>{{euros .Total}}</span></div>
  </div>
  <div class="pie">IVA incluido en los precios indicados.</div>
</body>
</html>`

const receiptTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Recibo {{.Number}}</title>
<style>` + documentStyles + `</style>
</head>
<body>
  <div class="header">
    <h1>RECIBO</h1>
    <span class="numero">Nº {{.Number}}</span>
  </div>
  <div class="datos">
    <p><strong>Fecha:</strong> {{formatDate .Date}}</p>
    <p><strong>Cliente:</strong> {{.ClientName}}</p>
    <p><strong>Teléfono:</strong> {{.ClientPhone}}</p>
    {{if .Vehicle}}<p><strong>Vehículo:</strong> {{.Vehicle}}{{if .Plate}} ({{.Plate}}){{end}}</p>{{end}}
    <p><strong>Concepto:</strong> {{.Description}}</p>
  </div>
  <table class="items">
    <thead>
      <tr><th>Descripción</th><th>Cantidad</th><th>Precio unit.</th><th>Importe</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{euros .UnitPrice}}</td>
        <td class="num">{{euros .Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="totales">
    <div class="fila total"><span>Total</span><span>{{euros .Amount}}</span></div>
  </div>
  <div class="pie">Este recibo no tiene validez como factura.</div>
</body>
</html>`

const warrantyTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Certificado de Garantía</title>
<style>` + documentStyles + `
  .cobertura { text-align: center; color: #fff; background: #2b6cb0; font-weight: bold; font-size: 1.05rem; border-radius: 8px; padding: 6px 0; margin-bottom: 16px; }
  .terminos { background: #f7fafc; border-radius: 8px; padding: 14px 16px; font-size: 0.95rem; line-height: 1.5; }
</style>
</head>
<body>
  <div class="header">
    <h1>CERTIFICADO DE GARANTÍA</h1>
  </div>
  <div class="cobertura">{{.Coverage}}</div>
  <div class="datos">
    <p><strong>Titular:</strong> {{.ClientName}}</p>
    <p><strong>Vehículo:</strong> {{.Vehicle}}</p>
    <p><strong>Matrícula:</strong> {{.Plate}}</p>
    <p><strong>Lámina instalada:</strong> {{.FilmType}}</p>
    <p><strong>Fecha de emisión:</strong> {{formatDate .IssuedAt}}</p>
  </div>
  <div class="terminos">
    <p>{{.Terms}}</p>
    <p>La garantía cubre defectos de instalación y materiales: burbujas, despegues y decoloración anómala de la lámina. No cubre daños por rotura del cristal ni manipulación por terceros.</p>
  </div>
  <div class="pie">Conserve este certificado junto a la documentación del vehículo.</div>
</body>
</html>`
