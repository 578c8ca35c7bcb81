package tui

const helpMarkdown = `# Codewerk

Erstellt Barcodes und QR-Codes über das Backend und zeigt sie als Liste.

## Eingabe

- **enter** erstellt einen Code aus dem eingegebenen Text
- **tab** wechselt zwischen Eingabe und Liste

## Liste

- **m** wechselt zwischen Barcode und QR-Code
- **d** speichert das Bild des ausgewählten Codes als PNG
- **c** kopiert den Text des ausgewählten Codes
- **x** löscht den ausgewählten Code (mit Rückfrage)
- **r** lädt die Liste neu
- **/** filtert die Liste

**q** oder **ctrl+c** beendet das Programm.
`
